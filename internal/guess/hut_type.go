package guess

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hut-services/internal/domain"
)

const (
	defaultElevation = 1500.0

	// выше этой высоты хижина без персонала считается биваком
	bivouacElevation = 2500.0
	// для имен вида "biwak"
	bivouacNameElevation = 2200.0
	// для закрытого состояния хижины
	closedBivouacElevation = 3000.0
	alpMaxElevation        = 2000.0
	smallHutCapacity       = 22
)

var (
	hutNames        = compile(`huette`, `r[ie]fug[ei]`, `h[iü]tt[ae]`, `camona`, `capanna`, `cabane`, `huisli`)
	bivouacNames    = compile(`biwak`, `bivouac`, `bivacco`)
	basicHotelNames = compile(`berghotel`, `berggasthaus`, `auberge`, `gasthaus`, `berghaus`)
	campingNames    = compile(`camping`, `zelt`)
	hotelNames      = compile(`h[oô]tel`)
	hostelNames     = compile(`hostel`, `jugendherberg`)
	restaurantNames = compile(`restaurant`, `ristorante`, `beizli`)
	alpNames        = compile(`alp`, `alm`, `hof`)

	hutOperators = map[string]bool{"sac": true, "dav": true}
)

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(strings.ToLower(p)))
	}
	return res
}

func matchAny(patterns []*regexp.Regexp, name string) bool {
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// Input - сигналы для определения типа хижины. Все поля необязательны.
type Input struct {
	Name         string              `json:"name"`
	Default      domain.HutType      `json:"default,omitempty"`
	Capacity     *domain.Capacity    `json:"capacity,omitempty"`
	Elevation    *float64            `json:"elevation,omitempty"`
	Operator     string              `json:"operator,omitempty"`
	OSMTag       string              `json:"osm_tag,omitempty"`
	MissingWalls string              `json:"missing_walls,omitempty"`
	OpenMonthly  *domain.OpenMonthly `json:"open_monthly,omitempty"`
}

// HutType определяет тип хижины в открытом и закрытом состоянии.
//
// Проверки по имени идут раньше числовых: "Berghotel" на 40 мест остается отелем.
// Тип в закрытом состоянии вычисляется только для hut с разной вместимостью.
func HutType(in Input) domain.HutTypeSchema {
	name := strings.ToLower(in.Name)

	capacityOpen, capacityClosed := 0, 0
	if in.Capacity != nil {
		capacityOpen = in.Capacity.OpenOrZero()
		capacityClosed = in.Capacity.ClosedOrZero()
	}

	elevation := defaultElevation
	if in.Elevation != nil && *in.Elevation != 0 {
		elevation = *in.Elevation
	}

	missingWalls, err := strconv.Atoi(strings.TrimSpace(in.MissingWalls))
	if err != nil {
		missingWalls = 0
	}

	possibleHut := matchAny(hutNames, name)
	// бивак высоко в горах, если имя не похоже на настоящую хижину
	high := elevation > bivouacElevation && !possibleHut

	open := in.Default
	if open == "" {
		open = domain.HutTypeUnknown
	}

	switch {
	case in.OpenMonthly != nil && in.OpenMonthly.AllClosed():
		open = domain.HutTypeClosed
	case matchAny(basicHotelNames, name):
		open = domain.HutTypeBasicHotel
	case matchAny(hotelNames, name):
		open = domain.HutTypeHotel
	case matchAny(hostelNames, name):
		open = domain.HutTypeHostel
	case matchAny(restaurantNames, name):
		open = domain.HutTypeRestaurant
	case matchAny(campingNames, name):
		open = domain.HutTypeCamping
	case in.OSMTag == "wilderness_hut" || missingWalls > 0:
		open = domain.HutTypeBasicShelter
		if high {
			open = domain.HutTypeBivouac
		}
	case (capacityOpen == capacityClosed || capacityOpen < smallHutCapacity) && capacityOpen > 0:
		open = domain.HutTypeSelfhut
		if high {
			open = domain.HutTypeBivouac
		}
	case possibleHut:
		open = domain.HutTypeHut
	case matchAny(bivouacNames, name):
		open = domain.HutTypeBivouac
		if elevation < bivouacNameElevation {
			open = domain.HutTypeSelfhut
		}
	case matchAny(alpNames, name) && elevation < alpMaxElevation:
		open = domain.HutTypeAlp
	case hutOperators[strings.ToLower(in.Operator)] || in.OSMTag == "alpine_hut":
		open = domain.HutTypeHut
	}

	result := domain.HutTypeSchema{Open: open}
	if open == domain.HutTypeHut && capacityOpen > 0 && capacityOpen != capacityClosed &&
		in.Capacity != nil && in.Capacity.Closed != nil {
		switch {
		case *in.Capacity.Closed == 0:
			result.Closed = domain.HutTypeClosed.Ptr()
		case *in.Capacity.Closed > 0:
			if elevation < closedBivouacElevation {
				result.Closed = domain.HutTypeSelfhut.Ptr()
			} else {
				result.Closed = domain.HutTypeBivouac.Ptr()
			}
		}
	}
	return result
}

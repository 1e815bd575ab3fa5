package domain

import (
	"encoding/json"
	"fmt"

	"github.com/hut-services/internal/pkg/slugify"
)

// HutType - тип хижины
type HutType string

const (
	HutTypeUnknown      HutType = "unknown"
	HutTypeClosed       HutType = "closed"
	HutTypeCampground   HutType = "campgr"
	HutTypeBasicShelter HutType = "shelter"
	HutTypeCamping      HutType = "camping"
	HutTypeBivouac      HutType = "bivouac"
	HutTypeSelfhut      HutType = "selfhut" // unattended hut
	HutTypeHut          HutType = "hut"
	HutTypeAlp          HutType = "alp"
	HutTypeBasicHotel   HutType = "bhotel"
	HutTypeHostel       HutType = "hostel"
	HutTypeHotel        HutType = "hotel"
	HutTypeSpecial      HutType = "special"
	HutTypeRestaurant   HutType = "resta"
)

// HutTypes - все допустимые типы
var HutTypes = []HutType{
	HutTypeUnknown, HutTypeClosed, HutTypeCampground, HutTypeBasicShelter,
	HutTypeCamping, HutTypeBivouac, HutTypeSelfhut, HutTypeHut, HutTypeAlp,
	HutTypeBasicHotel, HutTypeHostel, HutTypeHotel, HutTypeSpecial, HutTypeRestaurant,
}

// Ptr возвращает указатель на копию значения
func (t HutType) Ptr() *HutType {
	return &t
}

// HutTypeSchema - тип хижины в открытом и закрытом состоянии
type HutTypeSchema struct {
	Open   HutType  `json:"open" validate:"oneof=unknown closed campgr shelter camping bivouac selfhut hut alp bhotel hostel hotel special resta"`
	Closed *HutType `json:"closed" validate:"omitempty,oneof=unknown closed campgr shelter camping bivouac selfhut hut alp bhotel hostel hotel special resta"`
}

// Capacity - количество мест. nil означает "неизвестно", а не 0.
type Capacity struct {
	Open   *int `json:"open" validate:"omitempty,gte=0"`
	Closed *int `json:"closed" validate:"omitempty,gte=0"`
}

// OpenOrZero возвращает вместимость в открытом состоянии или 0
func (c Capacity) OpenOrZero() int {
	if c.Open == nil {
		return 0
	}
	return *c.Open
}

// ClosedOrZero возвращает вместимость в закрытом состоянии или 0
func (c Capacity) ClosedOrZero() int {
	if c.Closed == nil {
		return 0
	}
	return *c.Closed
}

// Owner - владелец хижины
type Owner struct {
	Slug     string      `json:"slug" validate:"max=50"`
	Name     string      `json:"name" validate:"required,max=100"`
	URL      string      `json:"url" validate:"max=200"`
	Note     Translation `json:"note"`
	Comment  string      `json:"comment"`
	Contacts []Contact   `json:"contacts,omitempty" validate:"dive"`
}

// NewOwner создает владельца, slug генерируется из имени
func NewOwner(name string) *Owner {
	o := &Owner{Name: name}
	o.ensureSlug()
	return o
}

func (o *Owner) ensureSlug() {
	if o.Slug == "" {
		o.Slug = slugify.MakeMax(o.Name, 50, true)
	}
}

// UnmarshalJSON заполняет slug, если он не передан
func (o *Owner) UnmarshalJSON(data []byte) error {
	type alias Owner
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Owner(a)
	o.ensureSlug()
	return nil
}

// Answer - ответ для календаря работы
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerMaybe   Answer = "maybe"
	AnswerNo      Answer = "no"
	AnswerUnknown Answer = "unknown"
)

// OpenMonthly - для каждого месяца открыта ли хижина. Месяцы нумеруются с 1.
type OpenMonthly struct {
	URL    string     `json:"url"`
	Months [12]Answer `json:"-" validate:"dive,oneof=yes maybe no unknown"`
}

// NewOpenMonthly создает календарь со значением unknown для всех месяцев
func NewOpenMonthly() OpenMonthly {
	var om OpenMonthly
	for i := range om.Months {
		om.Months[i] = AnswerUnknown
	}
	return om
}

// Month возвращает значение для месяца 1..12
func (o OpenMonthly) Month(month int) (Answer, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("month %d out of range 1..12", month)
	}
	return o.Months[month-1], nil
}

// SetMonth устанавливает значение для месяца 1..12
func (o *OpenMonthly) SetMonth(month int, value Answer) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range 1..12", month)
	}
	o.Months[month-1] = value
	return nil
}

// AllClosed - true, если все месяцы закрыты
func (o OpenMonthly) AllClosed() bool {
	for _, m := range o.Months {
		if m != AnswerNo {
			return false
		}
	}
	return true
}

func monthKey(i int) string {
	return fmt.Sprintf("month_%02d", i+1)
}

// MarshalJSON сериализует месяцы как month_01 ... month_12
func (o OpenMonthly) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, 13)
	m["url"] = o.URL
	for i, v := range o.Months {
		m[monthKey(i)] = string(v)
	}
	return json.Marshal(m)
}

// UnmarshalJSON - отсутствующие месяцы получают значение unknown
func (o *OpenMonthly) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*o = NewOpenMonthly()
	o.URL = m["url"]
	for i := range o.Months {
		if v, ok := m[monthKey(i)]; ok && v != "" {
			o.Months[i] = Answer(v)
		}
	}
	return nil
}

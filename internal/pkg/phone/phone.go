package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion - регион по умолчанию для номеров без международного кода
const DefaultRegion = "CH"

var (
	listSeparator = regexp.MustCompile(`(?i)[;,]|\s+(?:or|and|oder|und|ou|et|o|e)\s+`)
	candidate     = regexp.MustCompile(`\+?\(?\d[\d\s().\/-]{5,}\d`)
)

// Extract находит все телефонные номера в строке и возвращает их
// в международном формате. Невалидные кандидаты пропускаются.
func Extract(text, region string) []string {
	var numbers []string
	seen := make(map[string]struct{})
	for _, part := range listSeparator.Split(text, -1) {
		for _, match := range candidate.FindAllString(part, -1) {
			formatted, ok := Format(match, region)
			if !ok {
				continue
			}
			if _, dup := seen[formatted]; dup {
				continue
			}
			seen[formatted] = struct{}{}
			numbers = append(numbers, formatted)
		}
	}
	return numbers
}

// Format парсит номер и возвращает его в международном формате
func Format(number, region string) (string, bool) {
	num, err := phonenumbers.Parse(strings.TrimSpace(number), region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), true
}

// IsMobile проверяет, является ли номер мобильным
func IsMobile(number, region string) bool {
	num, err := phonenumbers.Parse(number, region)
	if err != nil {
		return false
	}
	return phonenumbers.GetNumberType(num) == phonenumbers.MOBILE
}

// Split распределяет отформатированные номера на стационарный и мобильный.
// Возвращает первый номер каждого типа.
func Split(numbers []string, region string) (landline, mobile string) {
	for _, n := range numbers {
		if IsMobile(n, region) {
			if mobile == "" {
				mobile = n
			}
			continue
		}
		if landline == "" {
			landline = n
		}
	}
	return landline, mobile
}

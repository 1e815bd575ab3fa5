package converter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/pkg/phone"
)

const (
	MaxURLLength       = 200
	maxOwnerNameLength = 60
	ownerNameCut       = 57
	maxEmailLength     = 70
)

// Truncate обрезает строку до max символов (не байт)
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// FirstURL возвращает первый непустой URL. Слишком длинный URL считается мусором.
func FirstURL(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if len(c) > MaxURLLength {
			return ""
		}
		return c
	}
	return ""
}

// NewOwner создает владельца из строки оператора.
// Длинное имя сокращается, полный текст сохраняется в comment.
func NewOwner(raw string) *domain.Owner {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if utf8.RuneCountInString(raw) <= maxOwnerNameLength {
		return domain.NewOwner(raw)
	}
	owner := domain.NewOwner(strings.TrimSpace(Truncate(raw, ownerNameCut)) + "...")
	owner.Comment = raw
	return owner
}

// ParseCapacity перебирает значения по приоритету и возвращает первое непустое как число.
// Ошибка разбора дает nil, а не 0.
func ParseCapacity(values ...string) *int {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil
		}
		return &n
	}
	return nil
}

// NewCapacity - если закрытая вместимость равна открытой, она не сохраняется
func NewCapacity(open, closed *int) domain.Capacity {
	if open != nil && closed != nil && *open == *closed {
		closed = nil
	}
	return domain.Capacity{Open: open, Closed: closed}
}

// NewContacts создает контакты из строки телефонов и строки email через ";".
// Каждый номер - отдельный контакт, первый email добавляется к первому номеру,
// остальные email становятся отдельными контактами.
// Email длиннее maxEmailLength отбрасывается.
func NewContacts(phones, emails, region string) []domain.Contact {
	contacts := []domain.Contact{}
	list := splitEmails(emails)

	for _, number := range phone.Extract(phones, region) {
		c := domain.NewNumberContact(number, region)
		c.IsPublic = true
		if len(contacts) == 0 && len(list) > 0 {
			c.Email = list[0]
			list = list[1:]
		}
		contacts = append(contacts, c)
	}

	for _, e := range list {
		c := domain.NewContact()
		c.Email = e
		c.IsPublic = true
		contacts = append(contacts, c)
	}
	return contacts
}

func splitEmails(emails string) []string {
	var res []string
	for _, e := range strings.Split(emails, ";") {
		e = strings.TrimSpace(e)
		if e == "" || utf8.RuneCountInString(e) > maxEmailLength {
			continue
		}
		res = append(res, e)
	}
	return res
}

package domain

import "github.com/hut-services/internal/pkg/phone"

// Contact - контактное лицо или организация
type Contact struct {
	Name     string      `json:"name" validate:"max=70"`
	Email    string      `json:"email" validate:"max=70"`
	Phone    string      `json:"phone" validate:"max=30"`
	Mobile   string      `json:"mobile" validate:"max=30"`
	Function string      `json:"function" validate:"max=20"`
	URL      string      `json:"url" validate:"max=200"`
	Address  string      `json:"address" validate:"max=200"`
	Note     Translation `json:"note"`
	IsActive bool        `json:"is_active"`
	IsPublic bool        `json:"is_public"`
}

// NewContact возвращает контакт со значениями по умолчанию
func NewContact() Contact {
	return Contact{IsActive: true}
}

// NewNumberContact создает контакт для одного номера.
// Номер попадает либо в Phone, либо в Mobile.
func NewNumberContact(number, region string) Contact {
	c := NewContact()
	if phone.IsMobile(number, region) {
		c.Mobile = number
	} else {
		c.Phone = number
	}
	return c
}

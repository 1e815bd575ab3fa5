package domain

// Translation - текст на нескольких языках. Пустая строка означает отсутствие перевода.
type Translation struct {
	DE string `json:"de"`
	EN string `json:"en"`
	FR string `json:"fr"`
	IT string `json:"it"`
}

// I18n возвращает первый непустой перевод в порядке de, en, fr, it
func (t Translation) I18n() string {
	for _, v := range []string{t.DE, t.EN, t.FR, t.IT} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty проверяет, что нет ни одного перевода
func (t Translation) IsEmpty() bool {
	return t.I18n() == ""
}

// Get возвращает перевод для языка (de, en, fr, it)
func (t Translation) Get(lang string) string {
	switch lang {
	case "de":
		return t.DE
	case "en":
		return t.EN
	case "fr":
		return t.FR
	case "it":
		return t.IT
	}
	return ""
}

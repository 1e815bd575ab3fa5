package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hut-services/internal/domain"
)

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://a.ch", FirstURL("", " https://a.ch ", "https://b.ch"))
	assert.Equal(t, "", FirstURL("https://"+strings.Repeat("x", 200)+".ch", "https://b.ch"))
	assert.Equal(t, "", FirstURL())
}

func TestNewOwner(t *testing.T) {
	assert.Nil(t, NewOwner("  "))

	short := NewOwner("Sektion Bern SAC")
	require.NotNil(t, short)
	assert.Equal(t, "Sektion Bern SAC", short.Name)
	assert.Equal(t, "sektion-bern-sac", short.Slug)
	assert.Empty(t, short.Comment)

	raw := "Bergführerverein und Sektion Bern des Schweizer Alpen-Clubs mit Partnern"
	long := NewOwner(raw)
	require.NotNil(t, long)
	assert.True(t, strings.HasSuffix(long.Name, "..."))
	assert.LessOrEqual(t, len([]rune(long.Name)), 60)
	assert.Equal(t, raw, long.Comment)
}

func TestParseCapacity(t *testing.T) {
	assert.Equal(t, domain.Int(12), ParseCapacity("12", "30"))
	assert.Equal(t, domain.Int(30), ParseCapacity("", "30", "40"))
	assert.Nil(t, ParseCapacity("about 10", "30"))
	assert.Nil(t, ParseCapacity("", ""))
	assert.Equal(t, domain.Int(0), ParseCapacity("0"))
}

func TestNewCapacity(t *testing.T) {
	c := NewCapacity(domain.Int(10), domain.Int(10))
	assert.Equal(t, domain.Int(10), c.Open)
	assert.Nil(t, c.Closed)

	c = NewCapacity(domain.Int(40), domain.Int(12))
	assert.Equal(t, domain.Int(12), c.Closed)

	c = NewCapacity(nil, domain.Int(5))
	assert.Nil(t, c.Open)
	assert.Equal(t, domain.Int(5), c.Closed)
}

func TestNewContacts(t *testing.T) {
	contacts := NewContacts("031 123 45 67; +41 79 123 45 67", "info@huette.ch", "CH")
	require.Len(t, contacts, 2)

	assert.Equal(t, "+41 31 123 45 67", contacts[0].Phone)
	assert.Empty(t, contacts[0].Mobile)
	assert.Equal(t, "info@huette.ch", contacts[0].Email)
	assert.True(t, contacts[0].IsPublic)

	assert.Equal(t, "+41 79 123 45 67", contacts[1].Mobile)
	assert.Empty(t, contacts[1].Phone)
	assert.Empty(t, contacts[1].Email)
}

func TestNewContacts_OnlyEmails(t *testing.T) {
	contacts := NewContacts("", "a@huette.ch; b@huette.ch", "CH")
	require.Len(t, contacts, 2)
	assert.Equal(t, "a@huette.ch", contacts[0].Email)
	assert.Equal(t, "b@huette.ch", contacts[1].Email)
	assert.True(t, contacts[1].IsPublic)
	assert.True(t, contacts[1].IsActive)
}

func TestNewContacts_Empty(t *testing.T) {
	contacts := NewContacts("", "", "CH")
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Hüt", Truncate("Hütte", 3))
	assert.Equal(t, "Hütte", Truncate("Hütte", 10))
}

func TestNewContacts_LongEmailDropped(t *testing.T) {
	long := strings.Repeat("x", 65) + "@huette.ch"

	contacts := NewContacts("031 123 45 67", long, "CH")
	require.Len(t, contacts, 1)
	assert.Equal(t, "+41 31 123 45 67", contacts[0].Phone)
	assert.Empty(t, contacts[0].Email)

	contacts = NewContacts("", long+"; b@huette.ch", "CH")
	require.Len(t, contacts, 1)
	assert.Equal(t, "b@huette.ch", contacts[0].Email)
}

func TestNewContacts_PhoneAndEmails(t *testing.T) {
	contacts := NewContacts("031 123 45 67", "a@huette.ch; b@huette.ch", "CH")
	require.Len(t, contacts, 2)
	assert.Equal(t, "a@huette.ch", contacts[0].Email)
	assert.Equal(t, "+41 31 123 45 67", contacts[0].Phone)
	assert.Equal(t, "b@huette.ch", contacts[1].Email)
	assert.Empty(t, contacts[1].Phone)
}

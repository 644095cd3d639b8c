package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []Appointment {
	return []Appointment{
		{ID: "1", PatientName: "Jo Lee", PatientEmail: "jo@x.com", PatientPhone: "5551234567", Status: StatusPending},
		{ID: "2", PatientName: "Maria Santos", PatientEmail: "maria@clinic.example", PatientPhone: "5559876543", Status: StatusConfirmed},
		{ID: "3", PatientName: "Lee Wong", PatientEmail: "lw@y.org", PatientPhone: "4440001111", Status: StatusPending},
	}
}

func ids(records []Appointment) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID
	}
	return out
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, []string{"1", "2", "3"}, ids(ListFilter{}.Apply(records)))
}

func TestFilterStatusAllIsIdentity(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, []string{"1", "2", "3"}, ids(ListFilter{Status: StatusFilterAll}.Apply(records)))
}

func TestFilterByStatus(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, []string{"1", "3"}, ids(ListFilter{Status: "pending"}.Apply(records)))
	assert.Equal(t, []string{"2"}, ids(ListFilter{Status: "confirmed"}.Apply(records)))
	assert.Empty(t, ListFilter{Status: "cancelled"}.Apply(records))
}

func TestFilterSearchIsCaseInsensitiveOnNameAndEmail(t *testing.T) {
	records := filterFixture()

	assert.Equal(t, []string{"1", "3"}, ids(ListFilter{Search: "LEE"}.Apply(records)))
	assert.Equal(t, []string{"2"}, ids(ListFilter{Search: "MARIA@"}.Apply(records)))
}

func TestFilterSearchMatchesRawPhone(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, []string{"2"}, ids(ListFilter{Search: "987"}.Apply(records)))
}

func TestFilterConjunction(t *testing.T) {
	records := filterFixture()
	got := ListFilter{Status: "pending", Search: "lee"}.Apply(records)
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got = ListFilter{Status: "confirmed", Search: "lee"}.Apply(records)
	assert.Empty(t, got)
}

func TestFilterApplicationOrderIndependent(t *testing.T) {
	records := filterFixture()

	statusFirst := ListFilter{Search: "lee"}.Apply(ListFilter{Status: "pending"}.Apply(records))
	searchFirst := ListFilter{Status: "pending"}.Apply(ListFilter{Search: "lee"}.Apply(records))
	combined := ListFilter{Status: "pending", Search: "lee"}.Apply(records)

	assert.Equal(t, ids(combined), ids(statusFirst))
	assert.Equal(t, ids(combined), ids(searchFirst))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	_ = ListFilter{Status: "pending"}.Apply(records)
	require.Len(t, records, 3)
	assert.Equal(t, "2", records[1].ID)
}

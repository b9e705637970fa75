package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Student", "Status"},
		Rows: []map[string]string{
			{"ID": "case-1", "Student": "Alice Johnson", "Status": "Resolved"},
			{"ID": "case-4", "Student": "Charlie Brown", "Status": "Appealed (Pending)"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ID,Student,Status\ncase-1,Alice Johnson,Resolved\ncase-4,Charlie Brown,Appealed (Pending)\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

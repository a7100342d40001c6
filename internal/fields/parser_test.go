package fields

import (
	"fmt"
	"testing"

	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser(model.DefaultLayout())

	tests := []struct {
		name string
		line string
		want model.SecurityRecord
	}{
		{
			name: "full record",
			line: fmt.Sprintf("%-43s%-20s%s", "ABCDEF 12 3 *  Acme Corp", "Widgets", "Active"),
			want: model.SecurityRecord{
				Identity:    "ABCDEF123",
				Flag:        "*",
				Name:        "Acme Corp",
				Description: "Widgets",
				Status:      "Active",
			},
		},
		{
			name: "no flag or status",
			line: fmt.Sprintf("%-43s%s", "000360 20 6    AAON INC", "COM PAR $0.004"),
			want: model.SecurityRecord{
				Identity:    "000360206",
				Name:        "AAON INC",
				Description: "COM PAR $0.004",
			},
		},
		{
			name: "shorter than name column",
			line: "00081T 10 8",
			want: model.SecurityRecord{Identity: "00081T108"},
		},
		{
			name: "ends inside identity",
			line: "00081T 1",
			want: model.SecurityRecord{Identity: "00081T1"},
		},
		{
			name: "empty",
			line: "",
			want: model.SecurityRecord{},
		},
		{
			name: "surrounding whitespace",
			line: "  " + fmt.Sprintf("%-43s%-20s%s", "88160R 10 1    TESLA INC", "COM", "ADDED") + "   ",
			want: model.SecurityRecord{
				Identity:    "88160R101",
				Name:        "TESLA INC",
				Description: "COM",
				Status:      "ADDED",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.line))
		})
	}
}

func TestParser_IdentityConcatenation(t *testing.T) {
	p := NewParser(model.DefaultLayout())

	lines := []string{
		"000360 20 6    AAON INC",
		"G0083D 10 4 *  ADIENT PLC",
		"00081T 1",
		"ABC",
		"",
	}

	for _, line := range lines {
		parts := p.IdentityParts(line)
		rec := p.Parse(line)
		assert.Equal(t, len(parts[0])+len(parts[1])+len(parts[2]), len(rec.Identity), line)
		assert.Equal(t, parts[0]+parts[1]+parts[2], rec.Identity, line)
	}
}

func TestParser_Runes(t *testing.T) {
	p := NewParser(model.DefaultLayout())

	line := fmt.Sprintf("%-43s%s", "ABCDEF 12 3    SOCIÉTÉ GÉNÉRALE", "ADR")
	rec := p.Parse(line)

	assert.Equal(t, "SOCIÉTÉ GÉNÉRALE", rec.Name)
	assert.Equal(t, "ADR", rec.Description)
}

func TestParser_CustomLayout(t *testing.T) {
	l := model.DefaultLayout()
	l.Status = model.Span{Start: 63, End: 65}
	p := NewParser(l)

	line := fmt.Sprintf("%-63s%s", "ABCDEF 12 3", "ADDED")
	assert.Equal(t, "AD", p.Parse(line).Status)
}

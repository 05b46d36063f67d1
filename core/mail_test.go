package core

import (
	"io/fs"
	"net/mail"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesFS(t *testing.T) {
	for _, name := range []string{"_base.txt", "_base.gohtml", "report.txt", "report.gohtml"} {
		t.Run(name, func(t *testing.T) {
			_, err := fs.ReadFile(templatesFS, path.Join(templatesDir, name))
			assert.NoError(t, err)
		})
	}
}

func TestEmailMessage_Render(t *testing.T) {
	tests := []struct {
		name     string
		msg      EmailMessage
		wantText []string
		wantHTML bool
	}{
		{
			name:     "plain body",
			msg:      EmailMessage{BodyStr: "hi"},
			wantText: []string{"hi"},
		},
		{
			name: "report template",
			msg: EmailMessage{
				TemplateName: "report",
				TemplateData: map[string]interface{}{
					"Format": "pdf", "Date": "2024-07-01", "TotalOutcomes": 12,
					"TotalCourses": 6, "AvgAchievement": 78.5, "HighRisk": 2,
				},
			},
			wantText: []string{"Hello,", "Average outcome achievement: 78.50%", "High risk outcomes: 2", "OBE Dashboard"},
			wantHTML: true,
		},
		{
			name: "unknown template renders nothing",
			msg:  EmailMessage{TemplateName: "lol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			msg.To = []mail.Address{{Address: "dean@obe.test"}}
			msg.SetAppName("OBE Dashboard")

			require.NoError(t, msg.Render())
			assert.Equal(t, len(tt.wantText) > 0, msg.HasContent())
			for _, s := range tt.wantText {
				assert.Contains(t, msg.TextContent, s)
			}
			if tt.wantHTML {
				assert.Contains(t, msg.HTMLContent, "OBE Dashboard")
			}
		})
	}
}

package echoapi_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_reportApi_download(t *testing.T) {
	app, repo := setup(t)
	seedDeclining(t, repo)

	tests := []struct {
		name            string
		path            string
		wantContentType string
		wantExt         string
		wantPrefix      []byte
	}{
		{
			name:            "excel",
			path:            "/v1/reports/excel",
			wantContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			wantExt:         `.xlsx"`,
			wantPrefix:      []byte("PK"),
		},
		{
			name:            "pdf",
			path:            "/v1/reports/pdf",
			wantContentType: "application/pdf",
			wantExt:         `.pdf"`,
			wantPrefix:      []byte("%PDF-"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			disposition := rec.Header().Get("Content-Disposition")
			assert.True(t, strings.HasPrefix(disposition, `attachment; filename="obe_report_`), disposition)
			assert.True(t, strings.HasSuffix(disposition, tt.wantExt), disposition)
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), tt.wantPrefix))
		})
	}
}

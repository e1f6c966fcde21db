package request

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	e "github.com/vgurov/talentflow/internal/candidate/errors"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

var caller = models.Identity{ID: "u1", TenantID: "t1", Role: models.RoleRecruiter}

func multipartBody(t *testing.T, fields string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if fields != "" {
		require.NoError(t, writer.WriteField(fieldsPartName, fields))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        Encoding
	}{
		{"json", "application/json", EncodingStructured},
		{"json with charset", "application/json; charset=utf-8", EncodingStructured},
		{"multipart", "multipart/form-data; boundary=xyz", EncodingMultipart},
		{"plain text", "text/plain", EncodingUnknown},
		{"xml", "application/xml", EncodingUnknown},
		{"missing", "", EncodingUnknown},
		{"garbage", ";;;", EncodingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("PATCH", "/v1/candidates/x", nil)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, DetectEncoding(r))
		})
	}
}

func TestNormalize_Structured(t *testing.T) {
	id := uuid.New()
	body := `{"status":"INTERVIEW_SCHEDULED","notes":"call back","interview_round":2}`
	r := httptest.NewRequest("PATCH", "/v1/candidates/"+id.String(), bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")

	update, err := Normalize(r, id, caller)
	require.NoError(t, err)

	assert.Equal(t, id, update.ID)
	assert.Equal(t, caller, update.Actor)
	require.NotNil(t, update.Status)
	assert.Equal(t, models.InterviewScheduled, *update.Status)
	require.NotNil(t, update.Notes)
	assert.Equal(t, "call back", *update.Notes)
	require.NotNil(t, update.InterviewRound)
	assert.Equal(t, 2, *update.InterviewRound)
	// Absent keys stay nil so the merge leaves stored values untouched.
	assert.Nil(t, update.FirstName)
	assert.Nil(t, update.Skills)
	assert.Empty(t, update.Attachments)
}

func TestNormalize_StructuredMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/v1/candidates/x", bytes.NewBufferString("{not json"))
	r.Header.Set("Content-Type", "application/json")

	_, err := Normalize(r, uuid.New(), caller)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestNormalize_StructuredUnknownStatus(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/v1/candidates/x", bytes.NewBufferString(`{"status":"HIRED"}`))
	r.Header.Set("Content-Type", "application/json")

	_, err := Normalize(r, uuid.New(), caller)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestNormalize_Multipart(t *testing.T) {
	id := uuid.New()
	buf, contentType := multipartBody(t, `{"status":"INTERVIEW_SCHEDULED","notes":"call back"}`, map[string][]byte{
		"resume": []byte("pdf-bytes"),
		"photo":  []byte("png-bytes"),
	})
	r := httptest.NewRequest("PATCH", "/v1/candidates/"+id.String(), buf)
	r.Header.Set("Content-Type", contentType)

	update, err := Normalize(r, id, caller)
	require.NoError(t, err)

	require.NotNil(t, update.Status)
	assert.Equal(t, models.InterviewScheduled, *update.Status)
	require.Len(t, update.Attachments, 2)
	assert.Equal(t, models.AttachmentResume, update.Attachments[0].Kind)
	assert.Equal(t, []byte("pdf-bytes"), update.Attachments[0].Content)
	assert.Equal(t, models.AttachmentPhoto, update.Attachments[1].Kind)
}

func TestNormalize_MultipartFieldsOnly(t *testing.T) {
	buf, contentType := multipartBody(t, `{"notes":"no files"}`, nil)
	r := httptest.NewRequest("PATCH", "/v1/candidates/x", buf)
	r.Header.Set("Content-Type", contentType)

	update, err := Normalize(r, uuid.New(), caller)
	require.NoError(t, err)
	assert.Empty(t, update.Attachments)
	require.NotNil(t, update.Notes)
	assert.Equal(t, "no files", *update.Notes)
}

func TestNormalize_MultipartMissingCandidatePart(t *testing.T) {
	buf, contentType := multipartBody(t, "", map[string][]byte{
		"resume": []byte("pdf-bytes"),
	})
	r := httptest.NewRequest("PATCH", "/v1/candidates/x", buf)
	r.Header.Set("Content-Type", contentType)

	_, err := Normalize(r, uuid.New(), caller)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestNormalize_UnsupportedEncoding(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/v1/candidates/x", bytes.NewBufferString("status=COMPLETED"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := Normalize(r, uuid.New(), caller)
	assert.ErrorIs(t, err, e.ErrUnsupportedEncoding)
}

// TestNormalize_EncodingEquivalence submits a logically identical update
// via both encodings and requires identical canonical commands.
func TestNormalize_EncodingEquivalence(t *testing.T) {
	id := uuid.New()
	fields := map[string]interface{}{
		"status":           "ON_HOLD",
		"applied_role":     "Data Engineer",
		"years_experience": 4,
		"skills":           []string{"python", "sql"},
	}
	raw, err := json.Marshal(fields)
	require.NoError(t, err)

	jsonReq := httptest.NewRequest("PATCH", "/v1/candidates/"+id.String(), bytes.NewReader(raw))
	jsonReq.Header.Set("Content-Type", "application/json")
	fromJSON, err := Normalize(jsonReq, id, caller)
	require.NoError(t, err)

	buf, contentType := multipartBody(t, string(raw), nil)
	multiReq := httptest.NewRequest("PATCH", "/v1/candidates/"+id.String(), buf)
	multiReq.Header.Set("Content-Type", contentType)
	fromMultipart, err := Normalize(multiReq, id, caller)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromMultipart, "both encodings must produce the same canonical command")
}

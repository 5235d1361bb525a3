package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		field     string
		want      string
		wantFound bool
	}{
		{
			name:      "name before value",
			html:      `<form><input type="hidden" name="stoken" value="abc123"></form>`,
			field:     "stoken",
			want:      "abc123",
			wantFound: true,
		},
		{
			name:      "value before name",
			html:      `<input value="abc123" type="hidden" name="stoken">`,
			field:     "stoken",
			want:      "abc123",
			wantFound: true,
		},
		{
			name:      "single quoted attributes",
			html:      `<input name='stoken' value='tok-9'>`,
			field:     "stoken",
			want:      "tok-9",
			wantFound: true,
		},
		{
			name:      "uppercase markup",
			html:      `<INPUT NAME="stoken" VALUE="UP">`,
			field:     "stoken",
			want:      "UP",
			wantFound: true,
		},
		{
			name:      "first matching element wins",
			html:      `<input name="stoken" value="first"><input name="stoken" value="second">`,
			field:     "stoken",
			want:      "first",
			wantFound: true,
		},
		{
			name:      "no such field",
			html:      `<input name="email" value="x@y.z">`,
			field:     "stoken",
			wantFound: false,
		},
		{
			name:      "field without value attribute",
			html:      `<input type="text" name="stoken">`,
			field:     "stoken",
			wantFound: false,
		},
		{
			name:      "malformed markup does not panic",
			html:      `<html><input name="stoken value=oops <div><<<`,
			field:     "stoken",
			wantFound: false,
		},
		{
			name:      "empty document",
			html:      "",
			field:     "stoken",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractToken(tt.html, tt.field)
			require.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFormFieldNames(t *testing.T) {
	html := `
		<form action="/captcha_bot.php" method="post">
			<input type="hidden" name="stoken" value="abc">
			<input type="text" name="fullname">
			<input type="email" name="email">
			<textarea name="comments"></textarea>
			<input type="submit" value="Register">
			<button name="go">Go</button>
		</form>`

	names := ExtractFormFieldNames(html)
	assert.Equal(t, []string{"stoken", "fullname", "email", "comments", "go"}, names)
}

func TestExtractFormFieldNamesEmpty(t *testing.T) {
	assert.Empty(t, ExtractFormFieldNames("<html><body>nothing here</body></html>"))
}

package core

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "security", Value: "low", Path: "/"})
		fmt.Fprint(w, `<form method="post">
<input name="name"><textarea name="message"></textarea>
<select name="level"><option>1</option></select>
<input type="hidden" name="user_token" value="t">
<input name="name">
<input type="submit" value="go">
</form>`)
	}))
	defer srv.Close()

	enumerator := NewInputEnumerator(newTestClient(t))
	surface := enumerator.Enumerate(context.Background(), srv.URL+"/xss.php?id=1&q=x&id=2")

	assert.Equal(t, []string{"id", "q"}, surface.Params)
	assert.Equal(t, []string{"name", "message", "level", "user_token"}, surface.Forms)
	assert.Equal(t, []string{"security"}, surface.Cookies)
}

func TestEnumerateFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	enumerator := NewInputEnumerator(newTestClient(t))
	enumerator.Timeout = 20 * time.Millisecond
	surface := enumerator.Enumerate(context.Background(), srv.URL+"/slow.php?id=1")
	assert.Equal(t, InputSurface{}, surface)
}

package api

import (
	"html/template"
	"net/http"
)

// The callback lands in a popup window the frontend opened. The page posts
// the outcome to the opener and closes itself; no token material is ever
// rendered into the HTML.

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head><title>Amazon Connected</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
  <h2>✅ Amazon account connected</h2>
  <p>You can close this window.</p>
  <script>
    if (window.opener) {
      window.opener.postMessage({source: "amazon-oauth", status: "success", accountId: {{.AccountID}}}, "*");
      setTimeout(function() { window.close(); }, 1500);
    } else if ({{.FrontendURL}}) {
      setTimeout(function() { window.location = {{.FrontendURL}}; }, 1500);
    }
  </script>
</body>
</html>`))

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>Amazon Connection Failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
  <h2>❌ Connection failed</h2>
  <p>{{.Message}}</p>
  {{if .Hint}}<p style="color: #666;">{{.Hint}}</p>{{end}}
  <p>Close this window and try again.</p>
  <script>
    if (window.opener) {
      window.opener.postMessage({source: "amazon-oauth", status: "error", message: {{.Message}}}, "*");
    }
  </script>
</body>
</html>`))

func renderSuccessPage(w http.ResponseWriter, accountID, frontendURL string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	successPage.Execute(w, struct{ AccountID, FrontendURL string }{AccountID: accountID, FrontendURL: frontendURL})
}

func renderErrorPage(w http.ResponseWriter, message, hint string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	errorPage.Execute(w, struct{ Message, Hint string }{Message: message, Hint: hint})
}

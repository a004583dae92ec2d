package api

import (
	"net/http"
	"os"
	"path/filepath"
)

const staticDir = "web/static"

// fallbackPage is served when the static directory is missing, so the
// service still presents a usable search form from a bare binary.
const fallbackPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Flight Price Tracker</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
label { display: block; margin-top: 0.75rem; }
input { width: 100%; padding: 0.4rem; box-sizing: border-box; }
button { margin-top: 1rem; padding: 0.5rem 1.5rem; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>Flight Price Tracker</h1>
<form id="search-form">
<label>Origin <input name="origin" value="YUL" maxlength="3" required></label>
<label>Destination <input name="destination" value="YVR" maxlength="3" required></label>
<label>Depart from <input name="departDateMin" type="date" required></label>
<label>Depart until <input name="departDateMax" type="date" required></label>
<label>Return from <input name="returnDateMin" type="date" required></label>
<label>Return until <input name="returnDateMax" type="date" required></label>
<label>Currency <input name="currency" value="cad"></label>
<label>Limit <input name="limit" type="number" value="5" min="1" max="20"></label>
<button type="submit">Search</button>
</form>
<pre id="result"></pre>
<script>
document.getElementById('search-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = Object.fromEntries(new FormData(e.target));
  data.limit = parseInt(data.limit, 10);
  const resp = await fetch('/api/search-flights', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(data)
  });
  document.getElementById('result').textContent = JSON.stringify(await resp.json(), null, 2);
});
</script>
</body>
</html>
`

// Index serves the landing page from the static directory, falling back to
// the embedded form.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(page); err == nil {
		http.ServeFile(w, r, page)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(fallbackPage))
}

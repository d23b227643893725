package vars

var (
	ContentType = "application/x-www-form-urlencoded;charset=utf-8"
	// the web app rejects requests without a desktop browser agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

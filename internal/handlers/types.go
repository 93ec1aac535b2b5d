package handlers

// CreateShortLinkRequest is the request body for creating a short link.
type CreateShortLinkRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url" maxLength:"2048" minLength:"1"`
	}
}

// CreateShortLinkResponse is the response for a created or already existing short link.
type CreateShortLinkResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Token    string `doc:"The short link token" example:"ABCDE"                               json:"token"`
		URL      string `doc:"The original URL"     example:"https://example.com/very/long/path" json:"url"`
		ShortURL string `doc:"The full short URL"   example:"http://localhost:8888/shortlinks/token/ABCDE" json:"shortUrl"`
	}
}

// TokenRequest addresses a short link by its token.
type TokenRequest struct {
	Token string `doc:"The short link token" example:"ABCDE" maxLength:"64" minLength:"1" path:"token"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

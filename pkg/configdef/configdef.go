package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

type Session struct {
	Title        string `json:"title" validate:"empty=false"`
	Address      string `json:"address" validate:"empty=false"`
	Width        int    `json:"width" validate:"gte=1 & lte=7680"`
	Height       int    `json:"height" validate:"gte=1 & lte=4320"`
	FrameRate    int    `json:"frame_rate" validate:"gte=1 & lte=60"`
	RenderRate   int    `json:"render_rate" validate:"gte=1 & lte=240"`
	RowAlignment int    `json:"row_alignment" validate:"gte=0 & lte=1024"`
	StaleAfterMS int    `json:"stale_after_ms" validate:"gte=1"`
	WebGL        bool   `json:"webgl"`
	Encoding     string `json:"encoding"`
	Disabled     bool   `json:"disabled"`
}

type API struct {
	Enabled       bool   `json:"enabled"`
	ListenAddress string `json:"listen_address"`
	APIKey        string `json:"api_key"`
}

type Values struct {
	Debug    bool      `json:"debug"`
	Secret   string    `json:"secret"`
	API      API       `json:"api"`
	Sessions []Session `json:"sessions"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	for i := range v.Sessions {
		if err := validate.Validate(&v.Sessions[i]); err != nil {
			return err
		}
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupSessionTitles(v.Sessions) {
		return fmt.Errorf(validationErrorHeader, errors.New("session titles must be unique"))
	}
	if v.API.Enabled {
		if len(v.API.ListenAddress) == 0 {
			return fmt.Errorf(validationErrorHeader, errors.New("api listen address is required when the api is enabled"))
		}
		if len(v.Secret) == 0 || len(v.API.APIKey) == 0 {
			return fmt.Errorf(validationErrorHeader, errors.New("secret and api key are required when the api is enabled"))
		}
	}
	return nil
}

func hasDupSessionTitles(sessions []Session) (hasDup bool) {
	hasDup = false
	if len(sessions) == 0 {
		return
	}

	for si, sess := range sessions {
		for i := si; i < len(sessions); i++ {
			if i == si {
				continue
			}
			if sess.Title == sessions[i].Title {
				hasDup = true
				return
			}
		}
	}
	return
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/offscreend/pkg/configdef"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "offscreend"
	configFileName = "config.json"
	configPathEnv  = "OFFSCREEN_DAEMON_CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	loadDefaultSessionSettings(values.Sessions)
	if values.API.Enabled && len(values.API.ListenAddress) == 0 {
		values.API.ListenAddress = defaultSettings[APILISTENADDR].(string)
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

func loadDefaultSessionSettings(sessions []configdef.Session) {
	for i := range sessions {
		session := &sessions[i]
		if session.FrameRate == 0 {
			session.FrameRate = defaultSettings[FRAMERATE].(int)
		}
		if session.RenderRate == 0 {
			session.RenderRate = defaultSettings[RENDERRATE].(int)
		}
		if session.StaleAfterMS == 0 {
			session.StaleAfterMS = defaultSettings[STALEAFTERMS].(int)
		}
		if len(session.Encoding) == 0 {
			session.Encoding = defaultSettings[ENCODING].(string)
		}
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to read from path %s: %w", path, err)
	}
	return data, nil
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv(configPathEnv)
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}

package config

import "github.com/tauraamui/offscreend/pkg/configdef"

type defaultSettingKey uint

const (
	SESSIONS      defaultSettingKey = 0x0
	FRAMERATE     defaultSettingKey = 0x1
	RENDERRATE    defaultSettingKey = 0x2
	STALEAFTERMS  defaultSettingKey = 0x3
	ENCODING      defaultSettingKey = 0x4
	APILISTENADDR defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	SESSIONS:      []configdef.Session{},
	FRAMERATE:     60,
	RENDERRATE:    60,
	STALEAFTERMS:  1000,
	ENCODING:      "UTF-8",
	APILISTENADDR: "127.0.0.1:3121",
}

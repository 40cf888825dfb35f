package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/buger/jsonparser"
)

// setting keys
const (
	sDriver      = "driver" // sim, log, rpio, gpiocdev, periph, spi
	sDigits      = "digits"
	sDataPin     = "dataPin" // BCM numbering
	sClockPin    = "clockPin"
	sCSPin       = "csPin"
	sGPIOChip    = "gpioChip"
	sSPIBus      = "spiBus"
	sSPIHz       = "spiHz"
	sIntensity   = "intensity"
	sTestTime    = "testTime"
	sRefreshRate = "refreshRate" // frames per second
	sClockMode   = "clockMode"
	sClockPos    = "clockPos"
	sExtraSpaces = "extraSpaces"
	sUptime      = "uptime"
	sUptimePos   = "uptimePos"
	sIndicator   = "indicator"
	sTimezone    = "timezone"
	sLogFile     = "logFile"
	sLogStderr   = "logStderr"
	sDebug       = "debug"
	sStatusAddr  = "statusAddr" // empty turns the status service off
	sAPIUser     = "apiUser"
	sAPISecret   = "apiSecret"
	sTerm        = "term"
)

// drivers
const (
	drvSim      = "sim"
	drvLog      = "log"
	drvRPIO     = "rpio"
	drvGPIOCDev = "gpiocdev"
	drvPeriph   = "periph"
	drvSPI      = "spi"
)

// keep settings generic, the type of the default decides the conversion
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	s[sDigits] = 32
	s[sDataPin] = 10
	s[sClockPin] = 11
	s[sCSPin] = 8
	s[sGPIOChip] = "gpiochip0"
	s[sSPIBus] = ""
	s[sSPIHz] = 1000000
	s[sIntensity] = byte(0x07)
	s[sTestTime] = time.Second
	s[sRefreshRate] = 40
	s[sClockMode] = "border"
	s[sClockPos] = 0
	s[sExtraSpaces] = false
	s[sUptime] = false
	s[sUptimePos] = 19
	s[sIndicator] = false
	s[sTimezone] = "Local"
	s[sLogFile] = "/var/log/segclock.log"
	s[sLogStderr] = false
	s[sDebug] = false
	s[sStatusAddr] = ":8080"
	s[sAPIUser] = "segclock"
	s[sAPISecret] = ""
	s[sTerm] = false

	// no chain to talk to off the pi
	s[sDriver] = drvSim
	if runtime.GOARCH == "arm" || runtime.GOARCH == "arm64" {
		s[sDriver] = drvRPIO
	}

	return configSettings{settings: s}
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		// allows 0x0F and friends
		i, err := strconv.ParseInt(strings.TrimSpace(n), 0, 64)
		return int(i), err
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// set converts v to the type of the default for key k
func (s configSettings) set(k string, v interface{}) error {
	var err error
	switch initVal := s.settings[k].(type) {
	case byte:
		var n int
		n, err = toInt(v)
		if err == nil && (n < 0 || n > 0xFF) {
			err = fmt.Errorf("%d out of range", n)
		}
		if err == nil {
			s.settings[k] = byte(n)
		}
	case int:
		var n int
		n, err = toInt(v)
		if err == nil {
			s.settings[k] = n
		}
	case bool:
		switch b := v.(type) {
		case bool:
			s.settings[k] = b
		case string:
			var bVal bool
			bVal, err = strconv.ParseBool(strings.ToLower(b))
			if err == nil {
				s.settings[k] = bVal
			}
		default:
			err = fmt.Errorf("not a bool: %v", v)
		}
	case time.Duration:
		dur, ok := v.(string)
		if !ok {
			err = fmt.Errorf("durations are strings like \"1s\": %v", v)
			break
		}
		var dur2 time.Duration
		dur2, err = time.ParseDuration(dur)
		if err == nil {
			s.settings[k] = dur2
		}
	case string:
		str, ok := v.(string)
		if !ok {
			err = fmt.Errorf("not a string: %v", v)
			break
		}
		s.settings[k] = str
	default:
		err = fmt.Errorf("Bad type: %T", initVal)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", k, err)
	}
	return nil
}

func (s configSettings) settingsFromJSON(data []byte) error {
	for k := range defaultSettings().settings {
		raw, dataType, _, err := jsonparser.Get(data, k)
		if dataType == jsonparser.NotExist {
			// ignore missing fields
			continue
		}
		if err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}

		var val interface{}
		switch dataType {
		case jsonparser.String:
			val, err = jsonparser.ParseString(raw)
		case jsonparser.Number:
			val, err = jsonparser.ParseInt(raw)
		case jsonparser.Boolean:
			val, err = jsonparser.ParseBoolean(raw)
		default:
			err = fmt.Errorf("unsupported value %s", string(raw))
		}
		if err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}
		if err := s.set(k, val); err != nil {
			return err
		}
	}
	return nil
}

func (s configSettings) settingsFromTOML(data []byte) error {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	for k := range defaultSettings().settings {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if err := s.set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// loadSettings reads a .toml file or a JSON .conf/.json file over the
// defaults
func loadSettings(configFile string) (configSettings, error) {
	s := defaultSettings()

	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return s, fmt.Errorf("could not load conf file '%s': %w", configFile, err)
	}

	log.Printf("Reading configuration from '%s'", configFile)
	if strings.ToLower(filepath.Ext(configFile)) == ".toml" {
		err = s.settingsFromTOML(data)
	} else {
		err = s.settingsFromJSON(data)
	}
	return s, err
}

func initSettings(configFile string) configSettings {
	log.Println("initSettings")

	s, err := loadSettings(configFile)
	if err != nil {
		log.Fatalf("Error: %s", err.Error())
	}
	return s
}

func (s configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s configSettings) GetByte(key string) byte {
	switch v := s.settings[key].(type) {
	case byte:
		return v
	case int: // cast to byte
		return byte(v)
	default:
		return 0
	}
}

func (s configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	case byte:
		return int(v)
	default:
		return 0
	}
}

func (s configSettings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		if k == sAPISecret && v != "" {
			v = "********"
		}
		log.Printf("%s : %T: %v\n", k, v, v)
	}
}

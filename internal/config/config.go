package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Timezone string   `koanf:"timezone"`
	Frontend Frontend `koanf:"frontend"`
	Calendar Calendar `koanf:"calendar"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Calendar holds display caps for the calendar view. Day and week views share
// one set of limits, month view has tighter ones.
type Calendar struct {
	MaxEventsPerDay        int `koanf:"maxeventsperday"`
	MaxEventsPerMonthCell  int `koanf:"maxeventspermonthcell"`
	MaxNoticesPerDay       int `koanf:"maxnoticesperday"`
	MaxNoticesPerMonthCell int `koanf:"maxnoticespermonthcell"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:     "http://localhost:3000",
		Timezone: "America/New_York",
		Frontend: Frontend{
			Enabled: true,
		},
		Calendar: Calendar{
			MaxEventsPerDay:        10,
			MaxEventsPerMonthCell:  2,
			MaxNoticesPerDay:       5,
			MaxNoticesPerMonthCell: 2,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "barkeep",
			Pass:   "",
			Name:   "barkeep",
			Schema: "barkeep",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "BARKEEP_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BARKEEP_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
	apisvc "github.com/trezcool/edutrack/services/api"
	logsvc "github.com/trezcool/edutrack/services/logger"
	sessionstore "github.com/trezcool/edutrack/storage/session"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug && conf.RollbarToken != "")

	store, err := sessionstore.NewFileStore(conf.Portal.SessionFile)
	errAndDie(err)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate)

	tokens := apisvc.TokenFunc(func() (string, error) { return store.Get(portal.KeyToken) })
	client := apisvc.NewClient(conf.Portal.APIBaseURL, tokens, apisvc.PolicyFrom(conf.Portal), validate, appLogger)

	cli := newCommandLine(conf.Portal, client, store, appLogger, os.Stdin, os.Stdout)
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package dig_container

import (
	"io"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/edutrack/apps/api/echo"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
	logsvc "github.com/trezcool/edutrack/services/logger"
	"github.com/trezcool/edutrack/storage/database"
	inmemdb "github.com/trezcool/edutrack/storage/database/inmem"
	sqlxrepos "github.com/trezcool/edutrack/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Storage is the repositories of the configured database engine.
	Storage struct {
		dig.Out
		Users     user.Repository
		Classroom classroom.Repository
		Closer    io.Closer
	}

	serverParams struct {
		dig.In
		Conf         *core.Config
		Logger       core.Logger
		UserSvc      *user.Service
		ClassroomSvc *classroom.Service
		Validate     *validator.Validate
		Translator   ut.Translator
	}
)

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.InMemory() {
		loggerParam.Logger.Info("using the in-memory database")
		db := inmemdb.Open()
		return Storage{
			Users:     inmemdb.NewUserRepository(db),
			Classroom: inmemdb.NewClassroomRepository(db),
			Closer:    closerFunc(func() error { return nil }),
		}
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		loggerParam.Logger.Fatal("setting up database: "+err.Error(), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		loggerParam.Logger.Fatal("opening database: "+err.Error(), err)
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		loggerParam.Logger.Fatal("migrating database: "+err.Error(), err)
	}
	return Storage{
		Users:     sqlxrepos.NewUserRepository(db),
		Classroom: sqlxrepos.NewClassroomRepository(db),
		Closer:    db,
	}
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		UserSvc:      p.UserSvc,
		ClassroomSvc: p.ClassroomSvc,
		Validate:     p.Validate,
		Translator:   p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(classroom.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

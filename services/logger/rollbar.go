package logsvc

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
)

// RollbarLogger prints every event and reports it to Rollbar once enabled.
// Each logger owns its Rollbar client: the API and DB loggers are configured apart.
type RollbarLogger struct {
	std    *log.Logger
	client *rollbar.Client
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	client := rollbar.New(conf.RollbarToken, conf.Env, conf.Build, conf.Server.Host, conf.WorkDir)
	client.SetStackTracer(errors.StackTracer)
	client.SetEnabled(false)
	return &RollbarLogger{std: std, client: client}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.client.SetEnabled(enabled)
}

// NewDiscardLogger returns a RollbarLogger that reports nowhere, for tests.
func NewDiscardLogger() *RollbarLogger {
	client := rollbar.New("", "test", "", "", "")
	client.SetEnabled(false)
	return &RollbarLogger{std: log.New(io.Discard, "", 0), client: client}
}

// event splits the args into the Rollbar payload and its printed form.
// expected args: error, map[string]interface{}, user.User
type event struct {
	err    error
	extras map[string]interface{}
	other  []interface{}
	usr    *user.User
}

func newEvent(args []interface{}) event {
	var ev event
	for _, arg := range args {
		switch arg := arg.(type) {
		case user.User:
			if ev.usr == nil { // the acting User comes first
				usr := arg
				ev.usr = &usr
			} else {
				ev.other = append(ev.other, arg)
			}
		case error:
			if ev.err == nil {
				ev.err = arg
			} else {
				ev.other = append(ev.other, arg)
			}
		case map[string]interface{}:
			if ev.extras == nil {
				ev.extras = make(map[string]interface{}, len(arg)+2)
			}
			for k, v := range arg {
				ev.extras[k] = v
			}
		default:
			ev.other = append(ev.other, arg)
		}
	}
	if ev.usr != nil {
		if ev.extras == nil {
			ev.extras = make(map[string]interface{}, 2)
		}
		ev.extras["user_id"] = ev.usr.ID
		ev.extras["user_role"] = string(ev.usr.Role)
	}
	return ev
}

// payload is what rollbar.Client.Log expects: message, then error and extras if any.
func (ev event) payload(msg string) []interface{} {
	payload := []interface{}{msg}
	if ev.err != nil {
		payload = append(payload, ev.err)
	}
	if ev.extras != nil {
		payload = append(payload, ev.extras)
	}
	return payload
}

func (ev event) String() string {
	var sb strings.Builder
	if ev.err != nil {
		fmt.Fprintf(&sb, " error=%q", ev.err.Error())
	}
	if ev.usr != nil {
		fmt.Fprintf(&sb, " user=%d(%s)", ev.usr.ID, ev.usr.Role)
	}
	for k, v := range ev.extras {
		if k == "user_id" || k == "user_role" {
			continue
		}
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	for _, arg := range ev.other {
		fmt.Fprintf(&sb, " %+v", arg)
	}
	return sb.String()
}

func (l *RollbarLogger) log(level, msg string, args []interface{}) {
	ev := newEvent(args)
	l.client.Log(level, ev.payload(msg)...)
	l.std.Printf("[%s] %s%s", strings.ToUpper(level), msg, ev)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	l.client.Wait()
	l.std.Fatal(msg)
}

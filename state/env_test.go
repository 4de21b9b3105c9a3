package state

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithEnv_Defaults(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	if env.Out != os.Stdout || env.In != os.Stdin {
		t.Error("streams should default to stdout and stdin")
	}
	if env.Cfg != nil || env.Rpt != nil {
		t.Error("configuration and report are only set once arguments are parsed")
	}
	// commands log before configuration is loaded (usage errors, unknown commands)
	if env.Log == nil {
		t.Fatal("logger must never be nil")
	}
	if env.Log.Core().Enabled(zap.ErrorLevel) {
		t.Error("logger should default to a no-op one")
	}
	env.Log.Warn("Unknown command, nothing to do", zap.String("command", "x"))
	env.RestoreStdLog()

	if env.Uptime() < 0 {
		t.Errorf("Uptime() = %v", env.Uptime())
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when env is not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_SharedThroughContext(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	// what the application Before hook does
	var out bytes.Buffer
	env := EnvFromContext(ctx)
	env.Out = &out
	env.In = strings.NewReader(`{"selector": ".hero"}`)
	env.Log = zap.NewExample()

	// what a command action sees later
	got := EnvFromContext(ctx)
	if got != env {
		t.Fatal("context must carry the same environment")
	}
	payload, err := io.ReadAll(got.In)
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if _, err := io.WriteString(got.Out, ".hero { display: none !important }\n"); err != nil {
		t.Fatalf("writing result: %v", err)
	}

	if string(payload) != `{"selector": ".hero"}` {
		t.Errorf("payload = %q", payload)
	}
	if out.String() != ".hero { display: none !important }\n" {
		t.Errorf("output = %q", out.String())
	}
	if EnvFromContext(ContextWithEnv(context.Background())) == env {
		t.Error("every context should get a fresh environment")
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })

	core, logs := observer.New(zap.InfoLevel)
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zap.New(core)

	env.RedirectStdLog()
	log.Print("from a library")
	env.RestoreStdLog()
	log.Print("after restore")
	// second restore at exit must be harmless
	env.RestoreStdLog()

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "from a library" {
		t.Errorf("captured %+v, want only the redirected message", entries)
	}

	env.Log = nil
	env.RedirectStdLog()
	env.RestoreStdLog()
}

package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

// TestHelperProcess is not a real test: it plays a tiny UCI engine when the
// test binary is started by startFake.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	scanner := bufio.NewScanner(os.Stdin)
	multiPV := 1
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "uci":
			fmt.Println("id name FakeFish")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "setoption":
			multiPV, _ = strconv.Atoi(fields[len(fields)-1])
		case "go":
			if os.Getenv("FAKE_ENGINE_HANG") == "1" {
				continue
			}
			fmt.Println("info string thinking")
			for depth := 1; depth <= 2; depth++ {
				for i := 1; i <= multiPV; i++ {
					fmt.Printf("info depth %d seldepth 3 multipv %d score cp %d nodes 100 pv e2e4 e7e5\n", depth, i, 40-10*i+depth)
				}
			}
			fmt.Println("bestmove e2e4 ponder e7e5")
		case "stop":
			fmt.Println("bestmove e2e4")
		case "quit":
			os.Exit(0)
		}
	}
	os.Exit(0)
}

func startFake(t *testing.T, extraEnv ...string) *Engine {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env := append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	env = append(env, extraEnv...)
	e, err := Start(ctx, Config{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess", "--"},
		Env:  env,
	})
	if err != nil {
		t.Fatalf("start fake engine: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestAnalyse(t *testing.T) {
	e := startFake(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	analysis, err := e.Analyse(ctx, chess.StartFEN, 2, 3)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	if analysis.BestMove != "e2e4" {
		t.Fatalf("bestmove: got %q, want e2e4", analysis.BestMove)
	}
	if len(analysis.Lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(analysis.Lines))
	}
	for i, l := range analysis.Lines {
		if l.MultiPV != i+1 || l.Depth != 2 {
			t.Fatalf("line %d: got multipv %d depth %d", i, l.MultiPV, l.Depth)
		}
	}
	if got := analysis.Lines[0].Score.Centipawns; got != 32 {
		t.Fatalf("first line score: got %d, want 32", got)
	}

	again, err := e.Analyse(ctx, chess.StartFEN, 2, 1)
	if err != nil || len(again.Lines) != 1 {
		t.Fatalf("second search: %+v %v", again, err)
	}
}

func TestAnalyseCancelled(t *testing.T) {
	e := startFake(t, "FAKE_ENGINE_HANG=1")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := e.Analyse(ctx, chess.StartFEN, 20, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want DeadlineExceeded", err)
	}
}

func TestClosedEngine(t *testing.T) {
	e := startFake(t)
	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := e.Analyse(context.Background(), chess.StartFEN, 1, 1); !errors.Is(err, ErrEngineClosed) {
		t.Fatalf("analyse after close: got %v, want ErrEngineClosed", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	if _, err := Start(context.Background(), Config{Path: "/nonexistent/stockfish"}); err == nil {
		t.Fatalf("expected an error for a missing binary")
	}
}

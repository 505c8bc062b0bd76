package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrEngineClosed = errors.New("engine closed")

// stopGrace bounds how long a cancelled search may take to report bestmove.
const stopGrace = time.Second

type Config struct {
	Path string
	Args []string
	Env  []string
}

// Engine drives one external UCI engine process. Searches are serialised.
type Engine struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string

	mu     sync.Mutex
	closed bool
}

// Start launches the engine and completes the uci/isready handshake.
func Start(ctx context.Context, cfg Config) (*Engine, error) {
	cmd := exec.Command(cfg.Path, cfg.Args...)
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", cfg.Path, err)
	}

	e := &Engine{
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 64),
	}
	go e.readLoop(stdout)

	if err := e.handshake(ctx); err != nil {
		e.Close()
		return nil, err
	}
	log.Infof("uci engine %s ready", cfg.Path)
	return e, nil
}

func (e *Engine) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		e.lines <- scanner.Text()
	}
	close(e.lines)
}

func (e *Engine) handshake(ctx context.Context) error {
	if err := e.send("uci"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, func(l string) bool { return l == "uciok" }); err != nil {
		return fmt.Errorf("uci handshake: %w", err)
	}
	return e.ready(ctx)
}

func (e *Engine) ready(ctx context.Context) error {
	if err := e.send("isready"); err != nil {
		return err
	}
	if _, err := e.waitFor(ctx, func(l string) bool { return l == "readyok" }); err != nil {
		return fmt.Errorf("isready: %w", err)
	}
	return nil
}

func (e *Engine) send(cmd string) error {
	if _, err := io.WriteString(e.stdin, cmd+"\n"); err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrEngineClosed, cmd, err)
	}
	return nil
}

// waitFor consumes output until match accepts a line.
func (e *Engine) waitFor(ctx context.Context, match func(string) bool) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-e.lines:
			if !ok {
				return "", ErrEngineClosed
			}
			if match(line) {
				return line, nil
			}
		}
	}
}

// Analyse searches fen to the given depth with multiPV lines. Scores are as
// the engine reports them, relative to the side to move in fen.
func (e *Engine) Analyse(ctx context.Context, fen string, depth, multiPV int) (Analysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Analysis{}, ErrEngineClosed
	}
	if multiPV < 1 {
		multiPV = 1
	}

	for _, cmd := range []string{
		fmt.Sprintf("setoption name MultiPV value %d", multiPV),
		"position fen " + fen,
		fmt.Sprintf("go depth %d", depth),
	} {
		if err := e.send(cmd); err != nil {
			return Analysis{}, err
		}
	}

	lines := make(map[int]Line)
	var best string
	_, err := e.waitFor(ctx, func(l string) bool {
		if info, ok := ParseInfo(l); ok {
			if prev, seen := lines[info.MultiPV]; !seen || info.Depth >= prev.Depth {
				lines[info.MultiPV] = info
			}
			return false
		}
		if mv, ok := ParseBestMove(l); ok {
			best = mv
			return true
		}
		return false
	})
	if err != nil {
		if ctx.Err() != nil {
			e.abort()
		}
		return Analysis{}, err
	}

	analysis := Analysis{BestMove: best, Lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		analysis.Lines = append(analysis.Lines, l)
	}
	sort.Slice(analysis.Lines, func(i, j int) bool {
		return analysis.Lines[i].MultiPV < analysis.Lines[j].MultiPV
	})
	return analysis, nil
}

// abort stops a running search and drains its bestmove so the next search
// starts clean.
func (e *Engine) abort() {
	if err := e.send("stop"); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	if _, err := e.waitFor(ctx, func(l string) bool {
		_, ok := ParseBestMove(l)
		return ok
	}); err != nil {
		log.Warnf("engine did not stop cleanly: %v", err)
	}
}

// Close asks the engine to quit and waits for the process to exit.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.send("quit")
	e.stdin.Close()

	done := make(chan error, 1)
	go func() {
		for range e.lines {
		}
		done <- e.cmd.Wait()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * stopGrace):
		log.Warnf("engine ignored quit, killing pid %d", e.cmd.Process.Pid)
		e.cmd.Process.Kill()
		return <-done
	}
}

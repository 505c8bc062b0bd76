package openings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrUnavailable = errors.New("opening statistics unavailable")

// Stats are aggregate results of games that reached a position, plus the
// moves most often played from it.
type Stats struct {
	White   int      `json:"white"`
	Draws   int      `json:"draws"`
	Black   int      `json:"black"`
	Moves   []Move   `json:"moves"`
	Opening *Opening `json:"opening"`
}

func (s Stats) Total() int {
	return s.White + s.Draws + s.Black
}

type Move struct {
	UCI           string `json:"uci"`
	SAN           string `json:"san"`
	AverageRating int    `json:"averageRating"`
	White         int    `json:"white"`
	Draws         int    `json:"draws"`
	Black         int    `json:"black"`
}

type Opening struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
}

// Client queries an explorer endpoint compatible with the Lichess opening
// explorer: GET <base>?play=e2e4,e7e5.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

// Lookup fetches statistics for the position reached by moves. Every
// failure is reported as ErrUnavailable.
func (c *Client) Lookup(ctx context.Context, moves []string) (Stats, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	agent := fiber.Get(c.baseURL)
	agent.QueryString("play=" + strings.Join(moves, ","))
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var stats Stats
	code, body, errs := agent.Struct(&stats)
	if len(errs) > 0 {
		return Stats{}, fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return Stats{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, code, truncate(body, 200))
	}
	return stats, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

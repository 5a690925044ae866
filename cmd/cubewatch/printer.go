package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"twistlight/cube"
)

type envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type stateInit struct {
	Mode       string `json:"mode"`
	Brightness uint8  `json:"brightness"`
	Cube       string `json:"cube"`
	Solved     bool   `json:"solved"`
	Switchmap  string `json:"switchmap"`
	Ledmap     string `json:"ledmap"`
}

type twistData struct {
	Input int    `json:"input"`
	Twist string `json:"twist"`
	Cube  string `json:"cube"`
}

type printer struct {
	w     io.Writer
	raw   bool
	board bool
}

// handle prints one monitor frame.
func (p *printer) handle(message []byte) {
	if p.raw {
		fmt.Fprintf(p.w, "%s\n", message)
		return
	}

	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		fmt.Fprintf(p.w, "[TEXT] %s\n", message)
		return
	}

	stamp := ""
	if env.Ts != nil {
		stamp = env.Ts.Local().Format("15:04:05.000") + " "
	}

	switch env.Type {
	case "state_init":
		var s stateInit
		if json.Unmarshal(env.Data, &s) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[INIT] mode=%s brightness=%d solved=%v\n", stamp, s.Mode, s.Brightness, s.Solved)
		fmt.Fprintf(p.w, "       switchmap=%s\n", s.Switchmap)
		p.printCube(s.Cube)
		return

	case "twist":
		var d twistData
		if json.Unmarshal(env.Data, &d) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[TWIST] %s (input %d)\n", stamp, d.Twist, d.Input)
		p.printCube(d.Cube)
		return

	case "solved":
		fmt.Fprintf(p.w, "%s[SOLVED]\n", stamp)
		return

	case "input":
		var d struct {
			Input int `json:"input"`
		}
		if json.Unmarshal(env.Data, &d) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[INPUT] %d\n", stamp, d.Input)
		return

	case "protocol_error":
		var d struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Data, &d) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[ERROR] %s\n", stamp, d.Message)
		return

	case "mode":
		var d struct {
			Mode string `json:"mode"`
		}
		if json.Unmarshal(env.Data, &d) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[MODE] %s\n", stamp, d.Mode)
		return

	case "state":
		var d struct {
			Cube string `json:"cube"`
		}
		if json.Unmarshal(env.Data, &d) != nil {
			break
		}
		fmt.Fprintf(p.w, "%s[STATE] %s\n", stamp, d.Cube)
		p.printCube(d.Cube)
		return
	}

	fmt.Fprintf(p.w, "%s[%s] %s\n", stamp, env.Type, env.Data)
}

func (p *printer) printCube(state string) {
	if !p.board || state == "" {
		return
	}
	c := cube.New()
	if err := c.Deserialise(state); err != nil {
		fmt.Fprintf(p.w, "       bad state: %v\n", err)
		return
	}
	fmt.Fprint(p.w, c.String())
}

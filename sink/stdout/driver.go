// basislab/sink/stdout/driver.go
package stdout

import (
	"fmt"
	"io"
	"os"
	"sync"

	basisv1 "basislab/api/v1"
	"basislab/internal/basis"
	"basislab/internal/render"
	"basislab/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintCounter bool `yaml:"print_counter"` // prepend seq#
	JSON         bool `yaml:"json"`          // one JSON outcome per line
	Plot         bool `yaml:"plot"`          // append the diagram

	Out  io.Writer          `yaml:"-"` // defaults to os.Stdout
	View render.PlotOptions `yaml:"-"` // zero fields take the defaults
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config

	mu  sync.Mutex // serialises writes and seq
	seq uint64
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	def := render.DefaultPlotOptions()
	if c.View.Width <= 0 {
		c.View.Width = def.Width
	}
	if c.View.Height <= 0 {
		c.View.Height = def.Height
	}
	if c.View.MinExtent <= 0 {
		c.View.MinExtent = def.MinExtent
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(o *basisv1.Outcome) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++

	if d.cfg.JSON {
		b, err := o.Encode()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(d.cfg.Out, "%s\n", b)
		return err
	}

	if d.cfg.PrintCounter {
		fmt.Fprintf(d.cfg.Out, "[sink %06d] %s\n", d.seq, o.Case.ID)
	} else {
		fmt.Fprintf(d.cfg.Out, "[%s]\n", o.Case.ID)
	}
	if o.Result == nil {
		_, err := fmt.Fprintf(d.cfg.Out, "error: %s\n\n", o.Error)
		return err
	}
	fmt.Fprint(d.cfg.Out, render.Text(*o.Result))
	if d.cfg.Plot && o.Result.Class != basis.ClassLinearDependence {
		fmt.Fprintln(d.cfg.Out, render.Plot(o.Result.Input, d.cfg.View).String())
	}
	_, err := fmt.Fprintln(d.cfg.Out)
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}

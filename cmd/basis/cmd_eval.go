package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"basislab/internal/basis"
	"basislab/internal/render"
	"basislab/internal/transform"
)

type evalOptions struct {
	point, b1, b2, origin string
	policy                string
	json, plot            bool
	remote                string
}

func newEvalCmd(a *app) *cobra.Command {
	o := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one point against one frame",
		Long: `Converts --point into the frame with axes --b1 and --b2 anchored at
--origin. Vectors are given as "x,y".

Example:
  basis eval --point 3,2 --b1 1,0.5 --b2 -0.5,1 --origin 1,1

The command exits non-zero when the axes are parallel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, a, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.point, "point", "", "Point in global coordinates (x,y)")
	f.StringVar(&o.b1, "b1", "", "First basis vector (x,y)")
	f.StringVar(&o.b2, "b2", "", "Second basis vector (x,y)")
	f.StringVar(&o.origin, "origin", "0,0", "Origin of the new frame (x,y)")
	f.StringVar(&o.policy, "policy", "", "Rotation policy: orthogonal or centered (default from config)")
	f.BoolVar(&o.json, "json", false, "Print the result as JSON")
	f.BoolVar(&o.plot, "plot", false, "Append a character diagram")
	f.StringVar(&o.remote, "remote", "", "Evaluate on a basis server at host:port")
	_ = cmd.MarkFlagRequired("point")
	_ = cmd.MarkFlagRequired("b1")
	_ = cmd.MarkFlagRequired("b2")
	return cmd
}

func (o *evalOptions) input() (basis.Input, error) {
	var in basis.Input
	for _, f := range []struct {
		name string
		raw  string
		dst  *basis.Vec2
	}{
		{"point", o.point, &in.Point},
		{"b1", o.b1, &in.Basis1},
		{"b2", o.b2, &in.Basis2},
		{"origin", o.origin, &in.Origin},
	} {
		v, err := parseVec(f.raw)
		if err != nil {
			return in, fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return in, nil
}

// parseVec reads "x,y".
func parseVec(s string) (basis.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return basis.Vec2{}, fmt.Errorf("want x,y, got %q", s)
	}
	var xy [2]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return basis.Vec2{}, fmt.Errorf("want x,y, got %q", s)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return basis.Vec2{}, fmt.Errorf("component %q is not finite", p)
		}
		xy[i] = f
	}
	return basis.V(xy[0], xy[1]), nil
}

// client evaluates locally or on remote; either way the policy is the one
// resolved from config and the --policy override.
func (a *app) client(policy, remote string) (transform.Client, error) {
	bc, err := a.engineConfig(policy)
	if err != nil {
		return nil, err
	}
	if remote != "" {
		return transform.NewGRPCClient(remote, bc.Policy.String())
	}
	return transform.NewInProcessClient(basis.New(bc), nil), nil
}

func runEval(cmd *cobra.Command, a *app, o *evalOptions) error {
	in, err := o.input()
	if err != nil {
		return err
	}
	cli, err := a.client(o.policy, o.remote)
	if err != nil {
		return err
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()
	res, err := cli.Transform(ctx, in)
	degenerate := errors.Is(err, basis.ErrDegenerateBasis)
	if err != nil && !degenerate {
		return err
	}

	out := cmd.OutOrStdout()
	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, render.Text(res))
		if o.plot && !degenerate {
			fmt.Fprintln(out)
			fmt.Fprintln(out, render.Plot(in, a.plotOptions()).String())
		}
	}
	// err is the degenerate-basis error here, or nil
	return err
}

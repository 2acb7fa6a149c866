/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/chenhsu16/jax-cfd/InputParameters"
	"github.com/chenhsu16/jax-cfd/fastdiag"
	"github.com/chenhsu16/jax-cfd/grid"
	"github.com/chenhsu16/jax-cfd/model_problems/NS2D"
)

// NS2DCmd represents the ns2d command
var NS2DCmd = &cobra.Command{
	Use:   "ns2d",
	Short: "Two dimensional incompressible Navier-Stokes on a periodic grid",
	Long: `
Advances 2D incompressible Navier-Stokes from a random divergence-free
initial field, projecting the velocity every step with the
fast-diagonalization pressure solver.

jax-cfd ns2d -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		doProfile, _ := cmd.Flags().GetBool("profile")
		doPerf, _ := cmd.Flags().GetBool("perf")
		sp := processInput(icFile, cmd)
		sp.Print()
		if doProfile {
			defer profile.Start().Stop()
		}
		if err = RunNS2D(sp, doPerf); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(icFile string, cmd *cobra.Command) (sp *InputParameters.SimulationParameters) {
	sp = &InputParameters.SimulationParameters{}
	if len(icFile) != 0 {
		data, err := os.ReadFile(icFile)
		if err != nil {
			panic(err)
		}
		if err = sp.Parse(data); err != nil {
			panic(err)
		}
		return
	}
	n, _ := cmd.Flags().GetInt("n")
	sp.Shape = []int{n, n}
	sp.Viscosity, _ = cmd.Flags().GetFloat64("viscosity")
	sp.ImplicitDiffusion, _ = cmd.Flags().GetBool("implicitDiffusion")
	sp.CFL, _ = cmd.Flags().GetFloat64("CFL")
	sp.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
	sp.MaxVelocity, _ = cmd.Flags().GetFloat64("maxVelocity")
	sp.Seed, _ = cmd.Flags().GetInt64("seed")
	sp.Density = 1
	sp.Title = "NS2D"
	return
}

func RunNS2D(sp *InputParameters.SimulationParameters, doPerf bool) (err error) {
	var (
		g grid.Grid
	)
	if len(sp.Domain) != 0 {
		g, err = grid.New(sp.Shape, sp.Domain)
	} else {
		g, err = grid.New(sp.Shape)
	}
	if err != nil {
		return
	}
	strat, err := fastdiag.ParseStrategy(sp.Strategy)
	if err != nil {
		return
	}
	opts := fastdiag.NewOptions(fastdiag.Float64)
	opts.Strategy = strat
	if sp.RFFTThreshold > 0 {
		opts.RFFTThreshold = sp.RFFTThreshold
	}

	c, err := NS2D.NewNS2D(sp.Viscosity, sp.Density, sp.CFL, sp.FinalTime, g, opts)
	if err != nil {
		return
	}
	c.ImplicitDiffusion = sp.ImplicitDiffusion
	if sp.Forcing {
		scale := sp.ForcingScale
		if scale == 0 {
			scale = 1
		}
		c.Forcing = NS2D.KolmogorovForcing(g, scale, 4)
	}

	rng := rand.New(rand.NewSource(sp.Seed))
	v, err := NS2D.FilteredVelocityField(g, rng, sp.MaxVelocity, 3, c.Solver())
	if err != nil {
		return
	}
	c.SetVelocity(v[0], v[1])

	if doPerf {
		return measureInstructions("ns2d run", c.Run)
	}
	return c.Run()
}

func init() {
	rootCmd.AddCommand(NS2DCmd)
	NS2DCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- Viscosity")
	NS2DCmd.Flags().IntP("n", "n", 64, "grid cells per axis")
	NS2DCmd.Flags().Float64("viscosity", 0.001, "kinematic viscosity")
	NS2DCmd.Flags().Bool("implicitDiffusion", false, "solve diffusion implicitly, lifting the explicit stability bound")
	NS2DCmd.Flags().Float64("CFL", 0.25, "CFL - increase for speedup, decrease for stability")
	NS2DCmd.Flags().Float64("finalTime", 1.0, "FinalTime - the target end time for the sim")
	NS2DCmd.Flags().Float64("maxVelocity", 1.0, "peak speed of the random initial field")
	NS2DCmd.Flags().Int64("seed", 42, "random seed for the initial field")
	NS2DCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
	NS2DCmd.Flags().Bool("perf", false, "report hardware instruction counts for the run (linux only)")
}

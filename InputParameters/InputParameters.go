package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SimulationParameters struct {
	Title             string       `yaml:"Title"`
	Shape             []int        `yaml:"Shape"`
	Domain            [][2]float64 `yaml:"Domain"` // One [lo, hi] pair per axis; empty = unit box
	Viscosity         float64      `yaml:"Viscosity"`
	ImplicitDiffusion bool         `yaml:"ImplicitDiffusion"`
	Density           float64      `yaml:"Density"`
	CFL               float64      `yaml:"CFL"`
	FinalTime         float64      `yaml:"FinalTime"`
	MaxVelocity       float64      `yaml:"MaxVelocity"`
	Seed              int64        `yaml:"Seed"`
	Forcing           bool         `yaml:"Forcing"`
	ForcingScale      float64      `yaml:"ForcingScale"`
	Strategy          string       `yaml:"Strategy"` // "", "matmul", "fft", "rfft"
	RFFTThreshold     int          `yaml:"RFFTThreshold"`
}

func (sp *SimulationParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return err
	}
	return sp.validate()
}

func (sp *SimulationParameters) validate() error {
	if len(sp.Shape) == 0 {
		return fmt.Errorf("input parameters: Shape is required")
	}
	if sp.Density == 0 {
		sp.Density = 1
	}
	if sp.CFL == 0 {
		sp.CFL = 0.25
	}
	if sp.MaxVelocity == 0 {
		sp.MaxVelocity = 1
	}
	return nil
}

func (sp *SimulationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%v\t\t= Shape\n", sp.Shape)
	fmt.Printf("%8.5f\t\t= Viscosity\n", sp.Viscosity)
	fmt.Printf("%8.5f\t\t= Density\n", sp.Density)
	fmt.Printf("%8.5f\t\t= CFL\n", sp.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", sp.FinalTime)
	fmt.Printf("%8.5f\t\t= MaxVelocity\n", sp.MaxVelocity)
	fmt.Printf("[%s]\t\t\t= Strategy\n", sp.Strategy)
}

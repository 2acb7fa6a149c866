package NS2D

import (
	"fmt"
	"math"

	"github.com/chenhsu16/jax-cfd/fastdiag"
	"github.com/chenhsu16/jax-cfd/grid"
	"github.com/chenhsu16/jax-cfd/pressure"
	"github.com/chenhsu16/jax-cfd/utils"
)

// ForcingFunc evaluates a body force for the current velocity field, one
// tensor per component.
type ForcingFunc func(v []utils.Tensor) []utils.Tensor

// NS2D advances incompressible Navier-Stokes on a 2-D periodic grid with
// explicit convection, explicit or implicit diffusion, and a pressure
// projection every step.
type NS2D struct {
	// Input parameters
	Nu, Rho, CFL, FinalTime float64
	ImplicitDiffusion       bool
	G                       grid.Grid
	Forcing                 ForcingFunc
	U, V                    utils.Tensor
	solver                  *fastdiag.Solver
	diffSolver              *fastdiag.Solver
	diffDt                  float64
}

func NewNS2D(nu, rho, cfl, finalTime float64, g grid.Grid, solverOpts ...fastdiag.Options) (c *NS2D, err error) {
	if g.Ndim() != 2 {
		err = fmt.Errorf("NS2D requires a 2-dimensional grid, got %d axes", g.Ndim())
		return
	}
	solver, err := pressure.NewSolver(g, solverOpts...)
	if err != nil {
		return
	}
	c = &NS2D{
		Nu:        nu,
		Rho:       rho,
		CFL:       cfl,
		FinalTime: finalTime,
		G:         g,
		U:         utils.NewTensor(g.Shape()),
		V:         utils.NewTensor(g.Shape()),
		solver:    solver,
	}
	return
}

// Solver exposes the pressure-Poisson solver built for this problem.
func (c *NS2D) Solver() *fastdiag.Solver { return c.solver }

// SetVelocity installs an initial velocity field, copying both components.
func (c *NS2D) SetVelocity(u, v utils.Tensor) {
	c.U = u.Copy()
	c.V = v.Copy()
}

// MaxVelocity returns the largest component magnitude over the field.
func (c *NS2D) MaxVelocity() (vmax float64) {
	for _, t := range []utils.Tensor{c.U, c.V} {
		for _, val := range t.Data() {
			if v := math.Abs(val); v > vmax {
				vmax = v
			}
		}
	}
	return
}

// DiffusionSolver builds the implicit-diffusion solve for one time step:
// (1 - nu*dt*Laplacian) u_new = u, diagonalized with the same machinery as
// the pressure solve. All eigenvalues of 1 - nu*dt*lambda are >= 1 for a
// negative-semidefinite Laplacian, so the plain reciprocal is safe.
func DiffusionSolver(nu, dt float64, g grid.Grid) (*fastdiag.Solver, error) {
	opts := fastdiag.NewOptions(fastdiag.Float64)
	opts.Hermitian = true
	opts.Circulant = true
	opts.Strategy = fastdiag.CirculantFFT
	k := complex(nu*dt, 0)
	fn := func(lambda complex128) complex128 {
		return 1 / (1 - k*lambda)
	}
	return fastdiag.Transform(fn, g.Laplacians(), opts)
}

// StableTimeStep picks a time step satisfying the advective Courant bound and
// verifies the explicit diffusion bound is not tighter.
func StableTimeStep(maxVelocity, maxCourant, viscosity float64, g grid.Grid) (dt float64, err error) {
	var (
		h = g.MinStep()
	)
	if maxVelocity <= 0 {
		maxVelocity = 1
	}
	dt = maxCourant * h / maxVelocity
	if viscosity > 0 {
		diffusionDt := h * h / (2 * float64(g.Ndim()) * viscosity)
		if diffusionDt < dt {
			err = fmt.Errorf("stable time step for diffusion is smaller than the chosen timestep: %v vs %v",
				diffusionDt, dt)
			return
		}
	}
	return
}

// DynamicTimeStep picks a time step from the current field's peak speed
// magnitude. With implicit diffusion only the advective bound applies.
func (c *NS2D) DynamicTimeStep() (dt float64, err error) {
	var (
		dU, dV = c.U.Data(), c.V.Data()
		vmax   float64
	)
	for i := range dU {
		if s := dU[i]*dU[i] + dV[i]*dV[i]; s > vmax {
			vmax = s
		}
	}
	viscosity := c.Nu / c.Rho
	if c.ImplicitDiffusion {
		viscosity = 0
	}
	return StableTimeStep(math.Sqrt(vmax), c.CFL, viscosity, c.G)
}

// RHS evaluates the explicit acceleration of both velocity components:
// centered convection, diffusion when stepped explicitly, and the optional
// body force over density.
func (c *NS2D) RHS() (rhsU, rhsV utils.Tensor) {
	var (
		g = c.G
	)
	convect := func(q utils.Tensor) utils.Tensor {
		dx := g.CenteredDiff(q, 0).ElMul(c.U)
		dy := g.CenteredDiff(q, 1).ElMul(c.V)
		return dx.Add(dy).Scale(-1)
	}
	diffuse := func(q utils.Tensor) utils.Tensor {
		lap := g.BackwardDiff(g.ForwardDiff(q, 0), 0)
		lap.Add(g.BackwardDiff(g.ForwardDiff(q, 1), 1))
		return lap.Scale(c.Nu / c.Rho)
	}
	rhsU = convect(c.U)
	rhsV = convect(c.V)
	if c.Nu > 0 && !c.ImplicitDiffusion {
		rhsU.Add(diffuse(c.U))
		rhsV.Add(diffuse(c.V))
	}
	if c.Forcing != nil {
		f := c.Forcing([]utils.Tensor{c.U, c.V})
		rhsU.Add(f[0].Scale(1 / c.Rho))
		rhsV.Add(f[1].Scale(1 / c.Rho))
	}
	return
}

// Step advances one time step: explicit update, pressure projection, and the
// implicit diffusion solve when enabled. The diffusion operator commutes with
// the projection on a periodic grid, so the field stays divergence free.
func (c *NS2D) Step(dt float64) (err error) {
	rhsU, rhsV := c.RHS()
	c.U.Add(rhsU.Scale(dt))
	c.V.Add(rhsV.Scale(dt))
	vNew, err := pressure.Projection(c.G, []utils.Tensor{c.U, c.V}, c.solver)
	if err != nil {
		return
	}
	c.U, c.V = vNew[0], vNew[1]
	if c.ImplicitDiffusion && c.Nu > 0 {
		if c.diffSolver == nil || c.diffDt != dt {
			if c.diffSolver, err = DiffusionSolver(c.Nu/c.Rho, dt, c.G); err != nil {
				return
			}
			c.diffDt = dt
		}
		if c.U, err = c.diffSolver.Apply(c.U); err != nil {
			return
		}
		c.V, err = c.diffSolver.Apply(c.V)
	}
	return
}

func (c *NS2D) Run() (err error) {
	var (
		logFrequency = 50
		dt           float64
	)
	if c.FinalTime <= 0 {
		err = fmt.Errorf("NS2D requires a positive final time, got %v", c.FinalTime)
		return
	}
	if dt, err = c.DynamicTimeStep(); err != nil {
		return
	}
	Ns := math.Ceil(c.FinalTime / dt)
	dt = c.FinalTime / Ns
	Nsteps := int(Ns)
	fmt.Printf("Umin, Umax = %8.5f, %8.5f, dt = %8.6f, Nsteps = %d\n", c.U.Min(), c.U.Max(), dt, Nsteps)

	var Time float64
	for tstep := 0; tstep < Nsteps; tstep++ {
		if err = c.Step(dt); err != nil {
			return
		}
		Time += dt
		if tstep%logFrequency == 0 {
			div := pressure.Divergence(c.G, []utils.Tensor{c.U, c.V})
			fmt.Printf("Time = %8.4f, step = %d, max_div = %10.3e, umin = %8.4f, umax = %8.4f\n",
				Time, tstep, math.Max(math.Abs(div.Max()), math.Abs(div.Min())), c.U.Min(), c.U.Max())
			utils.IsNanPanic(c.U)
		}
	}
	fmt.Printf("Finished at Time = %8.4f, %s\n", Time, utils.GetMemUsage())
	return
}

// KolmogorovForcing is the classic sinusoidal column force on the first
// velocity component: f = (A sin(2*pi*k*y), 0).
func KolmogorovForcing(g grid.Grid, amplitude float64, wavenumber int) ForcingFunc {
	var (
		shape = g.Shape()
		force = g.Axis(1).Apply(func(y float64) float64 {
			return amplitude * math.Sin(2*math.Pi*float64(wavenumber)*y)
		})
		fU = utils.NewTensor(shape)
	)
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			fU.Set(force.AtVec(j), i, j)
		}
	}
	zero := utils.NewTensor(shape)
	return func(v []utils.Tensor) []utils.Tensor {
		return []utils.Tensor{fU.Copy(), zero.Copy()}
	}
}

package trim

import (
	"math"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// lbfgsOptions tunes the quasi-Newton minimizer.
type lbfgsOptions struct {
	maxIterations int
	memory        int     // history pairs kept for the inverse-Hessian estimate
	acceptCost    float64 // stop early once the cost drops below this
	gradTolerance float64 // stop when the gradient norm falls below this
}

// lbfgsResult reports the best point seen, whether the accept band was
// reached, and how many iterations ran.
type lbfgsResult struct {
	x          []float64
	cost       float64
	iterations int
	accepted   bool
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }

func axpy(y []float64, a float64, x []float64) {
	for i := range y {
		y[i] += a * x[i]
	}
}

// minimizeLBFGS runs limited-memory BFGS with a bounded Wolfe line search.
// It returns the best parameter vector found even when it stops on the
// iteration budget; an error means the line search failed before any
// progress could be locked in.
func minimizeLBFGS(f func([]float64) float64, grad func([]float64) []float64, x0 []float64, opt lbfgsOptions) (lbfgsResult, error) {
	n := len(x0)
	x := append([]float64(nil), x0...)
	fx := f(x)
	g := grad(x)

	res := lbfgsResult{x: append([]float64(nil), x...), cost: fx}

	var sHist, yHist [][]float64
	var rhoHist []float64

	for iter := 0; iter < opt.maxIterations; iter++ {
		res.iterations = iter
		if fx <= opt.acceptCost {
			res.accepted = true
			break
		}
		if norm(g) < opt.gradTolerance {
			break
		}

		d := searchDirection(g, sHist, yHist, rhoHist)
		if dot(g, d) >= 0 {
			// Curvature information went bad; restart from steepest descent.
			sHist, yHist, rhoHist = nil, nil, nil
			d = make([]float64, n)
			for i := range d {
				d[i] = -g[i]
			}
		}

		_, fNew, xNew, gNew, err := wolfeSearch(f, grad, x, d, fx, g)
		if err != nil {
			if len(sHist) > 0 {
				// Retry once along raw steepest descent.
				sHist, yHist, rhoHist = nil, nil, nil
				for i := range d {
					d[i] = -g[i]
				}
				_, fNew, xNew, gNew, err = wolfeSearch(f, grad, x, d, fx, g)
			}
			if err != nil {
				if res.accepted = res.cost <= opt.acceptCost; res.accepted {
					return res, nil
				}
				return res, err
			}
		}

		s := make([]float64, n)
		y := make([]float64, n)
		for i := range s {
			s[i] = xNew[i] - x[i]
			y[i] = gNew[i] - g[i]
		}
		if sy := dot(s, y); sy > 1e-12 {
			sHist = append(sHist, s)
			yHist = append(yHist, y)
			rhoHist = append(rhoHist, 1/sy)
			if len(sHist) > opt.memory {
				sHist = sHist[1:]
				yHist = yHist[1:]
				rhoHist = rhoHist[1:]
			}
		}

		x, fx, g = xNew, fNew, gNew
		res.iterations = iter + 1
		if fx < res.cost {
			res.cost = fx
			copy(res.x, x)
		}
	}

	if fx <= opt.acceptCost {
		res.accepted = true
	}
	return res, nil
}

// searchDirection applies the two-loop recursion for -H·g with the stored
// curvature pairs, scaling the seed Hessian by the latest s·y/y·y.
func searchDirection(g []float64, sHist, yHist [][]float64, rhoHist []float64) []float64 {
	q := append([]float64(nil), g...)
	k := len(sHist)
	alphas := make([]float64, k)

	for i := k - 1; i >= 0; i-- {
		alphas[i] = rhoHist[i] * dot(sHist[i], q)
		axpy(q, -alphas[i], yHist[i])
	}

	gammaScale := 1.0
	if k > 0 {
		yy := dot(yHist[k-1], yHist[k-1])
		if yy > 0 {
			gammaScale = dot(sHist[k-1], yHist[k-1]) / yy
		}
	}
	for i := range q {
		q[i] *= gammaScale
	}

	for i := 0; i < k; i++ {
		beta := rhoHist[i] * dot(yHist[i], q)
		axpy(q, alphas[i]-beta, sHist[i])
	}

	for i := range q {
		q[i] = -q[i]
	}
	return q
}

// wolfeSearch finds a step along d satisfying the strong Wolfe conditions,
// with the step length bounded above. Bracketing doubles the step until the
// sufficient-decrease condition breaks, then bisects.
func wolfeSearch(f func([]float64) float64, grad func([]float64) []float64, x, d []float64, fx float64, g []float64) (alpha, fNew float64, xNew, gNew []float64, err error) {
	const (
		c1       = 1e-4
		c2       = 0.9
		alphaMax = 16.0
		maxIter  = 30
	)

	dphi0 := dot(g, d)
	if dphi0 >= 0 {
		return 0, 0, nil, nil, fdm.ErrLineSearchFailed
	}

	var aPrev, fPrev float64 = 0, fx
	a := 1.0

	for i := 0; i < maxIter; i++ {
		xa := pointAt(x, d, a)
		fa := f(xa)

		if fa > fx+c1*a*dphi0 || (i > 0 && fa >= fPrev) {
			return zoom(f, grad, x, d, fx, dphi0, aPrev, a, c1, c2)
		}

		ga := grad(xa)
		dphi := dot(ga, d)
		if math.Abs(dphi) <= -c2*dphi0 {
			return a, fa, xa, ga, nil
		}
		if dphi >= 0 {
			return zoom(f, grad, x, d, fx, dphi0, a, aPrev, c1, c2)
		}

		if a*2 > alphaMax {
			// Bounded step: settle for the last point that satisfied decrease.
			return a, fa, xa, ga, nil
		}
		aPrev, fPrev = a, fa
		a *= 2
	}
	return 0, 0, nil, nil, fdm.ErrLineSearchFailed
}

// zoom bisects a bracketing interval until the strong Wolfe conditions
// hold.
func zoom(f func([]float64) float64, grad func([]float64) []float64, x, d []float64, fx, dphi0, lo, hi, c1, c2 float64) (float64, float64, []float64, []float64, error) {
	fLo := f(pointAt(x, d, lo))

	for i := 0; i < 40; i++ {
		a := 0.5 * (lo + hi)
		xa := pointAt(x, d, a)
		fa := f(xa)

		if fa > fx+c1*a*dphi0 || fa >= fLo {
			hi = a
		} else {
			ga := grad(xa)
			dphi := dot(ga, d)
			if math.Abs(dphi) <= -c2*dphi0 {
				return a, fa, xa, ga, nil
			}
			if dphi*(hi-lo) >= 0 {
				hi = lo
			}
			lo, fLo = a, fa
		}
		if math.Abs(hi-lo) < 1e-14 {
			break
		}
	}
	return 0, 0, nil, nil, fdm.ErrLineSearchFailed
}

func pointAt(x, d []float64, a float64) []float64 {
	xa := make([]float64, len(x))
	for i := range x {
		xa[i] = x[i] + a*d[i]
	}
	return xa
}

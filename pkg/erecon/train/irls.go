package train

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
)

const (
	maxIRLSIterations = 50
	convergenceTol    = 1e-8
)

// Fit solves L2-regularized logistic regression over X (n x p, no bias
// column) and labels y via iteratively reweighted least squares. alpha
// penalizes the p feature weights; the bias term is never regularized.
// Returns the fitted weights (length p) and bias.
//
// IRLS is chosen over a tuned gradient-descent loop because it converges
// in a handful of Newton steps for the feature counts (tens of fields)
// this system targets, and the convergence criterion is a single
// parameter (log-likelihood delta) rather than a learning rate to get
// wrong.
func Fit(X *mat.Dense, y []float64, alpha float64) ([]float64, float64, error) {
	n, p := X.Dims()
	if n == 0 {
		return nil, 0, fmt.Errorf("train: empty feature matrix: %w", erecerr.ErrEmptyInput)
	}

	// Augment X with a leading bias column of 1s.
	aug := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			aug.Set(i, j+1, X.At(i, j))
		}
	}

	beta := mat.NewVecDense(p+1, nil) // [bias, w_1..w_p], starts at 0
	prevLL := math.Inf(-1)

	for iter := 0; iter < maxIRLSIterations; iter++ {
		eta := mat.NewVecDense(n, nil)
		eta.MulVec(aug, beta)

		mu := make([]float64, n)
		w := make([]float64, n) // IRLS weights: mu*(1-mu)
		z := make([]float64, n) // working response
		ll := 0.0

		for i := 0; i < n; i++ {
			p := sigmoid(eta.AtVec(i))
			mu[i] = p
			wi := p * (1 - p)
			if wi < 1e-10 {
				wi = 1e-10
			}
			w[i] = wi
			z[i] = eta.AtVec(i) + (y[i]-p)/wi
			ll += logLikelihoodTerm(y[i], p)
		}

		// Weighted normal equations: (X'WX + alphaI) beta = X'Wz,
		// bias column excluded from the ridge penalty.
		WX := mat.NewDense(n, p+1, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < p+1; j++ {
				WX.Set(i, j, aug.At(i, j)*w[i])
			}
		}

		var XtWX mat.Dense
		XtWX.Mul(aug.T(), WX)
		for j := 1; j <= p; j++ {
			XtWX.Set(j, j, XtWX.At(j, j)+alpha)
		}

		Wz := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			Wz.SetVec(i, w[i]*z[i])
		}
		var XtWz mat.VecDense
		XtWz.MulVec(aug.T(), Wz)

		var newBeta mat.VecDense
		if err := newBeta.SolveVec(&XtWX, &XtWz); err != nil {
			return nil, 0, fmt.Errorf("train: irls step failed to solve normal equations at alpha=%v: %w: %v", alpha, erecerr.ErrNumerical, err)
		}
		beta = &newBeta

		if math.Abs(ll-prevLL) < convergenceTol*float64(n) {
			return extractWeights(beta, p)
		}
		prevLL = ll
	}

	return nil, 0, fmt.Errorf("train: irls did not converge within %d iterations at alpha=%v: %w", maxIRLSIterations, alpha, erecerr.ErrNumerical)
}

func extractWeights(beta *mat.VecDense, p int) ([]float64, float64, error) {
	bias := beta.AtVec(0)
	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = beta.AtVec(j + 1)
	}
	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, 0, fmt.Errorf("train: non-finite bias after fit: %w", erecerr.ErrNumerical)
	}
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, 0, fmt.Errorf("train: non-finite weight after fit: %w", erecerr.ErrNumerical)
		}
	}
	return weights, bias, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func logLikelihoodTerm(y, p float64) float64 {
	const eps = 1e-12
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return y*math.Log(p) + (1-y)*math.Log(1-p)
}

// Predict returns sigma(w.x + bias) for a single feature vector.
func Predict(x []float64, weights []float64, bias float64) float64 {
	dot := bias
	for i, xi := range x {
		dot += xi * weights[i]
	}
	return sigmoid(dot)
}

package regress

import "sort"

// regressionTree is a CART-style tree fit by recursive variance-reducing
// splits. Nodes hold the training-target mean of their region; splits are
// chosen by scanning each feature in sorted order with running sums.
type regressionTree struct {
	root *treeNode
}

type treeNode struct {
	feature   int     // split feature index, -1 for leaves
	threshold float64 // go left when value <= threshold
	value     float64 // leaf prediction (mean of targets)
	left      *treeNode
	right     *treeNode
}

// treeParams bounds tree growth. Values follow the usual bagged-ensemble
// defaults: deep trees, small leaves, variance reduced by averaging.
type treeParams struct {
	maxDepth    int
	minLeafSize int
}

// fitTree grows a tree over rows[indices] and accumulates per-feature
// impurity decrease into importances (same length as the feature count).
func fitTree(rows [][]float64, target []float64, indices []int, params treeParams, importances []float64) *regressionTree {
	return &regressionTree{root: growNode(rows, target, indices, 0, params, importances)}
}

func growNode(rows [][]float64, target []float64, indices []int, depth int, params treeParams, importances []float64) *treeNode {
	sum, sumSq := 0.0, 0.0
	for _, i := range indices {
		sum += target[i]
		sumSq += target[i] * target[i]
	}
	n := float64(len(indices))
	mean := sum / n
	sse := sumSq - sum*sum/n

	node := &treeNode{feature: -1, value: mean}
	if depth >= params.maxDepth || len(indices) < 2*params.minLeafSize || sse <= 0 {
		return node
	}

	feature, threshold, gain, ok := bestSplit(rows, target, indices, sse, params.minLeafSize)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	importances[feature] += gain
	node.feature = feature
	node.threshold = threshold
	node.left = growNode(rows, target, left, depth+1, params, importances)
	node.right = growNode(rows, target, right, depth+1, params, importances)
	return node
}

// bestSplit finds the (feature, threshold) pair with the largest SSE
// reduction. Each feature is scanned once over its sorted values with
// running sums, skipping thresholds that would violate the leaf minimum
// or fall between identical values.
func bestSplit(rows [][]float64, target []float64, indices []int, parentSSE float64, minLeaf int) (feature int, threshold, gain float64, ok bool) {
	nFeatures := len(rows[indices[0]])
	n := len(indices)

	order := make([]int, n)
	bestGain := 0.0

	var totalSum float64
	for _, i := range indices {
		totalSum += target[i]
	}

	for f := 0; f < nFeatures; f++ {
		copy(order, indices)
		sortByFeature(rows, order, f)

		leftSum, leftSumSq := 0.0, 0.0
		rightSum := totalSum
		for k := 0; k < n-1; k++ {
			i := order[k]
			leftSum += target[i]
			leftSumSq += target[i] * target[i]
			rightSum -= target[i]

			nextVal := rows[order[k+1]][f]
			curVal := rows[i][f]
			if nextVal == curVal {
				continue
			}
			nLeft := k + 1
			nRight := n - nLeft
			if nLeft < minLeaf || nRight < minLeaf {
				continue
			}

			// SSE = sum(y²) - (sum(y))²/n per side; the sum(y²) terms cancel
			// against the parent, so the gain reduces to the means term.
			leftTerm := leftSum * leftSum / float64(nLeft)
			rightTerm := rightSum * rightSum / float64(nRight)
			g := leftTerm + rightTerm - totalSum*totalSum/float64(n)
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = (curVal + nextVal) / 2
			}
		}
	}

	if bestGain <= 0 {
		return 0, 0, 0, false
	}
	return feature, threshold, bestGain, true
}

func sortByFeature(rows [][]float64, order []int, f int) {
	sort.Slice(order, func(a, b int) bool { return rows[order[a]][f] < rows[order[b]][f] })
}

// predict walks the tree for one row.
func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for node.feature >= 0 {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

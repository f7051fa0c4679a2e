// Package basket implements market basket analysis over order line-items.
//
// The pipeline has three stages. BuildMatrix collapses raw transaction rows
// into a boolean order-by-product presence matrix. MineFrequentItemsets runs
// a level-wise Apriori search over the matrix, producing every itemset whose
// support meets the configured minimum. GenerateRules derives directional
// association rules (antecedent => consequent) from the frequent itemsets,
// scored by support, confidence and lift.
//
// The Analyzer type ties the stages together and is what the services layer
// uses. The read-side query helpers (Recommendations, Bundles, CrossSell)
// operate on the generated rule table without mutating it.
//
// All computation is in-memory, single-threaded and deterministic: two runs
// over the same input with the same parameters produce identical output.
package basket

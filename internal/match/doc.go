// Package match ranks XML names by similarity so that unexpected elements,
// attributes and schema references can come with "did you mean" suggestions.
//
// Key functions:
//   - NormalizeName: folds case and separators of XML and Go style names
//   - Levenshtein: computes edit distance between strings
//   - Rank and Suggest: order candidate names by similarity to a target
package match

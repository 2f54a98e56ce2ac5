// Package evaluate measures ranking quality against hand-labelled ground truth.
//
// Predicted and labelled sections are matched by title. Scores are split at
// a threshold (0.5 by default) into relevant and not relevant, and the two
// labellings are compared with accuracy, precision, recall and F1.
package evaluate

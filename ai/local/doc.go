// Package local runs sentence-transformer embeddings in process with hugot.
//
// The first use of a model downloads its ONNX export into the configured
// model directory; later runs load it from disk. No network service is needed
// after that.
package local

// Package fuzztests houses Go fuzz harnesses for the IR wire decoder. They
// feed arbitrary bytes to irwire and check that malformed input comes back
// as an error, never a panic or a leaked node.
package fuzztests

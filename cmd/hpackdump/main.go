// Command hpackdump decodes a hex-encoded HPACK header block from
// stdin, one block per line, and prints the decoded header fields.
// It's a debugging aid for inspecting header blocks captured off the
// wire, in the spirit of the package's own test vectors.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/trafficedge/core/hpack"
)

func main() {
	maxDynTab := uint32(4096)
	d := hpack.NewDecoder(maxDynTab, nil)

	scanner := bufio.NewScanner(os.Stdin)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNum, err)
			continue
		}
		fields, err := d.DecodeFull(raw)
		for _, f := range fields {
			fmt.Println(f.String())
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mht2html <mht_path> <output_path> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an archived chat transcript (MHT/MHTML) to standalone HTML.")
	fmt.Fprintln(w, "Embedded resources are extracted next to the output file and the")
	fmt.Fprintln(w, "HTML is rewritten to reference them by relative path.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  mht_path       Input archive")
	fmt.Fprintln(w, "  output_path    Output HTML file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -d, --dir <name>         Resource directory name (default \"images\")")
	fmt.Fprintln(w, "  -w, --work <n>           Extraction workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>      Config file name or path")
	fmt.Fprintln(w, "      --placeholder <s>    Text inserted into blank records")
	fmt.Fprintln(w, "      --selector <s>       CSS selector matching one transcript record")
	fmt.Fprintln(w, "      --no-progress        Disable the progress bar")
	fmt.Fprintln(w, "  -q, --quiet              Only show errors")
	fmt.Fprintln(w, "  -v, --verbose            Show detailed timing")
	fmt.Fprintln(w, "      --version            Show version information")
}

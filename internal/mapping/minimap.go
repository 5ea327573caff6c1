// Package mapping maps reads back to the assembly and separates
// plasmid-specific reads from chromosomal ones.
package mapping

import (
	"context"
	"strconv"

	"plassembler/internal/tool"
)

// LongPreset returns the minimap2 preset for the long-read technology.
func LongPreset(pacbioModel string) string {
	switch pacbioModel {
	case "pacbio-hifi":
		return "map-hifi"
	case "pacbio-raw", "pacbio-corr":
		return "map-pb"
	default:
		return "map-ont"
	}
}

// MinimapLong aligns long reads against ref and writes SAM to samPath.
func MinimapLong(ctx context.Context, r tool.Runner, reads, ref, samPath string, threads int, pacbioModel string) error {
	return tool.RunToFile(ctx, r, tool.Command{
		Name: "minimap2",
		Args: []string{"-ax", LongPreset(pacbioModel), "-t", strconv.Itoa(threads), ref, reads},
		Log:  "minimap2_long",
	}, samPath)
}

// MinimapShort aligns a short-read pair against ref and writes SAM to samPath.
func MinimapShort(ctx context.Context, r tool.Runner, r1, r2, ref, samPath string, threads int) error {
	return tool.RunToFile(ctx, r, tool.Command{
		Name: "minimap2",
		Args: []string{"-ax", "sr", "-t", strconv.Itoa(threads), ref, r1, r2},
		Log:  "minimap2_short",
	}, samPath)
}

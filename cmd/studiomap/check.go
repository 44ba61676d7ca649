package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/VantageDataChat/studiomap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and dataset and print a summary",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadInputs()
	if err != nil {
		return err
	}
	space, err := cfg.PlotSpace()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	domestic := d.ByRegion(studiomap.RegionDomestic)
	international := d.ByRegion(studiomap.RegionInternational)
	fmt.Fprintf(out, "%s studios (%s domestic, %s international), %s with growth\n",
		humanize.Comma(int64(d.Len())),
		humanize.Comma(int64(len(domestic))),
		humanize.Comma(int64(len(international))),
		humanize.Comma(int64(len(d.GrowthCandidates()))))

	var people int64
	above := 0
	for _, r := range d.Records() {
		people += int64(r.CurrentTeamSize)
		if float64(r.CurrentTeamSize) > space.SizeCeiling || float64(r.FoundedTeamSize) > space.SizeCeiling {
			above++
		}
	}
	fmt.Fprintf(out, "%s people today\n", humanize.Comma(people))
	fmt.Fprintf(out, "team size axis %s to %s (%s decades)\n",
		humanize.FormatFloat("#,###.#", space.SizeFloor),
		humanize.FormatFloat("#,###.", space.SizeCeiling),
		humanize.FormatFloat("#.#", space.YMax()-space.YMin()))
	if above > 0 {
		fmt.Fprintf(out, "warning: %d studios exceed the size ceiling and will plot above the frame\n", above)
	}
	if space.XMin > 0 || space.XMax < 1 {
		fmt.Fprintf(out, "warning: score axis %v..%v does not cover [0,1]\n", space.XMin, space.XMax)
	}
	return nil
}

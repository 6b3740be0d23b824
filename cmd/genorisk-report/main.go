// genorisk-report scores a genotype profile against the gene-nutrient
// reference catalog and emits the full risk report as JSON.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/kb"
	"github.com/nutrigene/genorisk/report"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var (
		profilePath string
		kbDir       string
		sessionID   string
		age         int
		sexFlag     string
		summaryOnly bool
		pretty      bool
	)
	flag.StringVar(&profilePath, "profile", "", "Path to the genotype profile (tab- or comma-delimited: rsid, chromosome, position, genotype)")
	flag.StringVar(&kbDir, "kb", "", "Optional: directory with reference catalog files; defaults to the embedded catalog")
	flag.StringVar(&sessionID, "session", "session", "Session identifier echoed into the report")
	flag.IntVar(&age, "age", 0, "Age in whole years")
	flag.StringVar(&sexFlag, "sex", "unknown", "Sex: male, female, or unknown")
	flag.BoolVar(&summaryOnly, "summary", false, "Emit the report summary instead of the full report")
	flag.BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	flag.Parse()

	if profilePath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --profile")
	}

	if age <= 0 {
		flag.PrintDefaults()
		log.Fatalln("Please provide --age")
	}

	sex, err := kb.ParseSex(sexFlag)
	if err != nil {
		log.Fatalln(err)
	}

	catalog, err := loadCatalog(kbDir)
	if err != nil {
		log.Fatalln(err)
	}

	profile, err := genotype.ReadProfileFile(profilePath, sessionID)
	if err != nil {
		log.Fatalln(err)
	}

	engine, err := report.NewEngine(catalog)
	if err != nil {
		log.Fatalln(err)
	}

	rep, err := engine.Generate(profile, age, sex)
	if err != nil {
		log.Fatalln(err)
	}

	if n := len(rep.Gaps); n > 0 {
		log.Printf("Report for %s has %d gap(s); see the gaps field for details", rep.SessionID, n)
	}

	var out interface{} = rep
	if summaryOnly {
		out = rep.Summarize()
	}

	enc := json.NewEncoder(STDOUT)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		log.Fatalln(err)
	}
}

func loadCatalog(kbDir string) (*kb.Catalog, error) {
	if kbDir == "" {
		return kb.Builtin()
	}

	catalog, err := kb.LoadDir(kbDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", kbDir, err)
	}

	return catalog, nil
}

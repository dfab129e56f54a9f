// Command blockctl is a small end-to-end driver over the module: it
// reads two FASTA records, aligns them with pgalign, fuses them into a
// block chain with block.Combine, persists the result with pgstore,
// and reports any duplicate blocks pgdedup finds — the same
// "read files, run the pipeline, print a summary" shape as the
// dna_aligner/main.go and dup_identification/main.go
// drivers, generalized from a single alignment run to the full
// align/combine/store pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/block"
	"github.com/hmmm42/pangraph-core/pgalign"
	"github.com/hmmm42/pangraph-core/pgconfig"
	"github.com/hmmm42/pangraph-core/pgdedup"
	"github.com/hmmm42/pangraph-core/pgio"
	"github.com/hmmm42/pangraph-core/pglog"
	"github.com/hmmm42/pangraph-core/pgstore"
)

func main() {
	var (
		refPath    = flag.String("ref", "data/ref.fasta", "path to the reference FASTA")
		qryPath    = flag.String("qry", "data/qry.fasta", "path to the query FASTA")
		configPath = flag.String("config", "", "optional YAML config overriding the built-in defaults")
		storeDir   = flag.String("store", "", "badger directory to persist the resulting blocks into (empty disables persistence)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	cfg := pgconfig.Default()
	if *configPath != "" {
		loaded, err := pgconfig.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "blockctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *verbose {
		cfg.Verbose = true
	}
	log := pglog.New(cfg.Verbose)

	refRecords, err := pgio.ReadFasta(*refPath)
	if err != nil {
		log.Fatalf("read ref: %v", err)
	}
	qryRecords, err := pgio.ReadFasta(*qryPath)
	if err != nil {
		log.Fatalf("read qry: %v", err)
	}
	if len(refRecords) == 0 || len(qryRecords) == 0 {
		log.Fatalf("both %s and %s must contain at least one record", *refPath, *qryPath)
	}
	refRec, qryRec := refRecords[0], qryRecords[0]
	log.Infof("loaded ref %q (%d bp) and qry %q (%d bp)", refRec.Header, len(refRec.Sequence), qryRec.Header, len(qryRec.Sequence))

	a := arena.NewNodeArena()
	refNode, qryNode := a.New(), a.New()
	refBlock := block.NewBlock(refNode, refRec.Sequence)
	qryBlock := block.NewBlock(qryNode, qryRec.Sequence)

	aln, ok := pgalign.Align(qryRec.Sequence, refRec.Sequence, cfg.Aligner, cfg.Block.MaxGap)
	if !ok {
		log.Warn("no alignment found above the configured thresholds; leaving blocks unmerged")
		reportBlocks(log, []*block.Block{refBlock, qryBlock})
		return
	}
	log.Infof("aligned qry[%d:%d] against ref[%d:%d], orientation %+d", aln.QryInterval.Lo, aln.QryInterval.Hi, aln.RefInterval.Lo, aln.RefInterval.Hi, aln.Orientation)

	result, err := block.Combine(refBlock, qryBlock, aln)
	if err != nil {
		log.Fatalf("combine: %v", err)
	}

	chain := chainFromResult(result)
	log.Infof("combine produced %d blocks (%d core)", len(chain), len(result.Core))
	reportBlocks(log, chain)

	if groups := pgdedup.FindDuplicateBlocks(chain); len(groups) > 0 {
		for i, g := range groups {
			log.Infof("duplicate group %d: %d blocks", i, len(g.Blocks))
		}
	}

	if *storeDir != "" {
		store, err := pgstore.Open(pgstore.Config{Dir: *storeDir, ValueLogGB: cfg.Store.ValueLogGB, SyncWrites: cfg.Store.SyncWrites, Logger: log})
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer store.Close()

		for _, b := range chain {
			if err := store.Put(b); err != nil {
				log.Fatalf("store block %s: %v", b.ID(), err)
			}
		}
		reads, writes := store.Stats()
		log.Infof("persisted %d blocks to %s (reads=%d writes=%d)", len(chain), *storeDir, reads, writes)
	}
}

// chainFromResult flattens a Combine Result into its full ordered
// block chain: ref's leading flank, qry's leading flank (if the
// alignment didn't start at qry's own edge), the merged core, then
// both trailing flanks.
func chainFromResult(r *block.Result) []*block.Block {
	var chain []*block.Block
	for _, b := range []*block.Block{r.RefBefore, r.QryBefore} {
		if b != nil {
			chain = append(chain, b)
		}
	}
	chain = append(chain, r.Core...)
	for _, b := range []*block.Block{r.RefAfter, r.QryAfter} {
		if b != nil {
			chain = append(chain, b)
		}
	}
	return chain
}

func reportBlocks(log interface{ Infof(string, ...interface{}) }, blocks []*block.Block) {
	for i, b := range blocks {
		log.Infof("block %d: id=%s depth=%d length=%d", i, b.ID(), b.Depth(), b.Length())
	}
}

/*
Package optikit keeps an optical system's flat surface sequence and its
hierarchical part tree in sync.

An optical system has two natural representations. The sequential model is
the ground truth: an ordered list of interfaces (refracting, reflecting,
thin-lens or dummy surfaces) interleaved with the gaps between them. The
part tree is the overlay engineers actually think in: lens elements,
cemented groups, mirrors, air spaces and assemblies, each owning a slice of
the sequence. Edits happen on the sequence; optikit classifies what changed,
reconciles the element set, and rebuilds the tree so both views agree again.

# Concept

The engine reduces the sequence to a compact grouping string (one symbol per
surface and gap), parses it into structural signatures, and diffs those
signatures against the parts currently registered. Signatures equal on both
sides are untouched; a signature sharing its kind and leading gap with a
departed one is the same part modified and is rebound in place; everything
else is created or removed. A final reorder pass canonicalizes sibling order
from the sequence, so the tree never drifts.

# Usage

Build a model over a sequence, edit the sequence, then refresh:

	package main

	import (
		"log"
		"os"

		"github.com/optikit/optikit"
		"github.com/optikit/optikit/pkg/sequence"
	)

	func main() {
		seq := sequence.NewObjectImage()
		seq.Insert(1, sequence.NewInterface(0.02),
			&sequence.Gap{Thickness: 4, Medium: sequence.Medium{Name: "N-BK7", Index: 1.5168}})
		seq.Insert(2, sequence.NewInterface(-0.02),
			&sequence.Gap{Thickness: 10, Medium: sequence.Air()})

		model, err := optikit.NewFromSequence(seq)
		if err != nil {
			log.Fatal(err)
		}

		// Edit the sequence, then bring the tree back in step.
		seq.Insert(3, &sequence.Interface{Mode: sequence.Reflect, Profile: &sequence.Profile{}},
			&sequence.Gap{Thickness: 5, Medium: sequence.Air()})
		changes, err := model.Refresh()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("added %d, removed %d, modified %d",
			len(changes.Added), len(changes.Removed), len(changes.Modified))

		if err := model.Save(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

Between an out-of-band sequence edit and the completion of Refresh the tree
is not trustworthy; queries in that window see the stale grouping.
*/
package optikit

package reconcile

import (
	"github.com/optikit/optikit/pkg/elements"
	"github.com/optikit/optikit/pkg/parttree"
	"github.com/optikit/optikit/pkg/sequence"
)

// accum is one pending entry of a non-air media run during the grouping
// scan.
type accum struct {
	idx  int
	ifc  *sequence.Interface
	gap  *sequence.Gap
	zdir sequence.ZDir
}

// GroupFromSequence builds the element registry and part tree from a raw
// sequence: the full first-time grouping. The scan handles plain air gaps,
// single air-bounded surfaces, cemented multi-surface runs, and buried
// reflectors (a reflecting surface inside a non-air run), where the
// accumulated run is split at the reflector and the reflected sub-range is
// re-parented under the forward part's profile and thickness nodes so the
// tree follows the physical light path rather than naive sequence order.
func GroupFromSequence(seq *sequence.Model, reg *elements.Registry, tree *parttree.Tree) error {
	if tree.IsEmpty() {
		tree.InitFromSequence(seq)
	}

	buried := false
	var eles []accum
	for _, seg := range seq.Path() {
		if tree.ResolveParent(seg.Ifc, parttree.DefaultParentFilter) != nil {
			continue // already grouped
		}
		cur := accum{idx: seg.Idx, ifc: seg.Ifc, gap: seg.Gap, zdir: seg.ZDir}

		if seg.Gap == nil || seg.Gap.Medium.IsAir() {
			if len(eles) == 0 {
				processAirgap(seq, reg, tree, cur, true)
				continue
			}

			numEles := len(eles)
			if buried {
				numEles /= 2
				eles = append(eles, cur)
			}

			switch {
			case numEles == 1:
				first := eles[0]
				s2 := cur.ifc
				if buried {
					// fold at the reflector: the element spans the
					// forward surface pair, the reflected surface and
					// gap ride along in the tree
					s2 = eles[1].ifc
				}
				e := elements.NewElement(first.ifc, s2, first.gap)
				reg.Add(e)
				eNode := tree.AddPart(e.MakeTree(seq, first.zdir, 0))
				if buried {
					foldSimple(tree, eNode, eles, first)
					cur = eles[len(eles)-1]
				}

			case numEles > 1:
				if !buried {
					eles = append(eles, cur)
				}
				run := eles[:numEles+1]
				ifcs := make([]*sequence.Interface, len(run))
				var gaps []*sequence.Gap
				for k, a := range run {
					ifcs[k] = a.ifc
					if k < len(run)-1 {
						gaps = append(gaps, a.gap)
					}
				}
				ce := elements.NewCementedElement(ifcs, gaps)
				reg.Add(ce)
				ceNode := tree.AddPart(ce.MakeTree(seq, eles[0].zdir, 0))
				if buried {
					foldCemented(tree, ceNode, eles, numEles)
				}
				cur = eles[len(eles)-1]
			}

			// close the run with its trailing air space
			if cur.gap != nil {
				ag := elements.NewAirGap(cur.gap)
				reg.Add(ag)
				tree.AddPart(ag.MakeTree(seq, cur.zdir, 0))
			}
			eles = eles[:0]
			buried = false
			continue
		}

		// a non-air medium: accumulate; a reflecting surface here is a
		// buried reflector (prism, Mangin mirror)
		if seg.Ifc.Mode == sequence.Reflect {
			buried = true
		}
		eles = append(eles, cur)
	}

	// rename and tag the image space air gap
	if n := len(seq.Gaps); n > 0 {
		key := sequence.GapKey{Gap: seq.Gaps[n-1], ZDir: seq.ZDirAt(n - 1)}
		node := tree.ResolveParent(key, parttree.DefaultParentFilter)
		if node != nil && node.Name != "Object space" {
			node.Name = "Image space"
			if p, ok := node.ID.(elements.Part); ok {
				p.SetLabel("Image space")
			}
			node.Tags = node.Tags.With(parttree.TagImage)
		}
	}

	tree.ReorderFromSequence(seq)
	return nil
}

// foldSimple re-parents the reflected half of a two-surface buried
// reflector under the freshly added element: the surface behind the
// reflector joins the front profile node, and the reflected gap leaf
// joins the element's thickness node.
func foldSimple(tree *parttree.Tree, eNode *parttree.Node, eles []accum, first accum) {
	back := eles[len(eles)-1]
	if ifcNode := tree.Node(back.ifc); ifcNode != nil {
		if pNode := eNode.FindName(parttree.ProfileName(1)); pNode != nil {
			ifcNode.AttachTo(pNode)
		}
	}
	refl := eles[1]
	gNode := tree.Node(sequence.GapKey{Gap: refl.gap, ZDir: refl.zdir})
	g1Node := tree.Node(sequence.GapKey{Gap: first.gap, ZDir: first.zdir})
	if gNode != nil && g1Node != nil && g1Node.Parent() != nil {
		gNode.AttachTo(g1Node.Parent())
	}
}

// foldCemented re-parents the reflected surfaces and gaps of a buried
// reflector run under the forward cemented element, pairing the i-th
// reflected surface with profile node p_i and its gap with thickness node
// t_i.
func foldCemented(tree *parttree.Tree, ceNode *parttree.Node, eles []accum, numEles int) {
	for i := 1; i <= numEles; i++ {
		back := eles[len(eles)-i]
		if ifcNode := tree.Node(back.ifc); ifcNode != nil {
			if pNode := ceNode.FindName(parttree.ProfileName(i)); pNode != nil {
				ifcNode.AttachTo(pNode)
			}
		}
		prev := eles[len(eles)-i-1]
		gNode := tree.Node(sequence.GapKey{Gap: prev.gap, ZDir: prev.zdir})
		if gNode == nil {
			continue
		}
		if tNode := ceNode.FindName(parttree.ThicknessName(i)); tNode != nil {
			gNode.AttachTo(tNode)
		}
	}
}

// processAirgap handles a sequence position outside any media run: a
// reflective or thin-lens surface becomes its own element, dummy and
// air-bounded transmitting surfaces become dummy-interface parts at the
// object, image and stop positions, and the trailing air gap becomes an
// air-space part.
func processAirgap(seq *sequence.Model, reg *elements.Registry, tree *parttree.Tree, cur accum, addEle bool) {
	switch {
	case cur.ifc.Mode == sequence.Reflect && addEle:
		m := elements.NewMirror(cur.ifc)
		reg.Add(m)
		tree.AddPart(m.MakeTree(seq, cur.zdir, 0))

	case cur.ifc.Thin && addEle:
		te := elements.NewThinElement(cur.ifc)
		reg.Add(te)
		tree.AddPart(te.MakeTree(seq, cur.zdir, 0))

	case cur.ifc.Mode == sequence.Dummy || cur.ifc.Mode == sequence.Transmit:
		addDummy := false
		label := ""
		var tag parttree.Tag
		switch {
		case cur.idx == 0:
			addDummy, label, tag = true, "Object", parttree.TagObject
		case cur.idx == seq.NumIfcs()-1:
			addDummy, label, tag = true, "Image", parttree.TagImage
		case cur.idx > 0 && seq.Gaps[cur.idx-1].Medium.IsAir():
			addDummy = true
			if seq.Stop == cur.idx {
				label, tag = "Stop", parttree.TagStop
			}
		}
		if addDummy {
			d := elements.NewDummyInterface(cur.ifc)
			d.SetLabel(label)
			reg.Add(d)
			tree.AddPart(d.MakeTree(seq, cur.zdir, tag))
		}
	}

	if cur.gap != nil {
		label := ""
		var tag parttree.Tag
		if cur.idx == 0 {
			label, tag = "Object space", parttree.TagObject
		}
		ag := elements.NewAirGap(cur.gap)
		ag.SetLabel(label)
		reg.Add(ag)
		tree.AddPart(ag.MakeTree(seq, cur.zdir, tag))
	}
}

package ddraw

// CountMips returns the number of mip levels attached below and
// including s, following next-mip edges. The walk stops at the
// configured maximum. The descriptor's mip count is not consulted.
func (s *Surface) CountMips() int {
	if s == nil {
		return 0
	}
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.iface.countMipsLocked(s)
}

func (i *Interface) countMipsLocked(s *Surface) int {
	if s == nil {
		return 0
	}
	n := 1
	for cur := s.nextMipLocked(); cur != nil && n < i.opts.maxMipLevels; cur = cur.nextMipLocked() {
		n++
	}
	return n
}

// mipChainLocked returns the surfaces of the chain rooted at s, level 0
// first, capped at levels entries.
func (s *Surface) mipChainLocked(levels int) []*Surface {
	chain := make([]*Surface, 0, levels)
	for cur := s; cur != nil && len(chain) < levels; cur = cur.nextMipLocked() {
		chain = append(chain, cur)
	}
	return chain
}

// walkMipsLocked counts the chain of s and reports a disagreement with
// the declared mip count.
func (i *Interface) walkMipsLocked(s *Surface) int {
	n := i.countMipsLocked(s)
	if hint := s.storage.Describe().MipCount; hint > 0 && hint != n {
		Logger().Warn("ddraw: declared mip count differs from attached chain",
			"surface", s.id, "declared", hint, "levels", n)
	}
	return n
}

package ddraw

// InitializeOrUpload brings the modern resource of s up to date with its
// legacy content. It is called after every legacy-side write and before
// every modern-side use.
//
// The device identity is checked first. A surface that is not
// Materialized is materialized, then the content is uploaded. Calling it
// again without an intervening write returns the same resource. Mip
// sub-levels and cube faces synchronize their whole complex through its
// root.
func (s *Surface) InitializeOrUpload() error {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.iface.syncLocked(s)
}

func (i *Interface) syncLocked(s *Surface) error {
	if s.released {
		return ErrReleased
	}
	root := s.complexRoot()
	i.refreshLocked(root)
	if root.state != Materialized {
		if err := i.materializeLocked(root); err != nil {
			return err
		}
		if root.state != Materialized {
			return nil
		}
	}
	root.lastUpload = i.uploadLocked(root)
	return nil
}

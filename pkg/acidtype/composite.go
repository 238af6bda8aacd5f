package acidtype

// Composite is an Acid with a fixed parent list and resource list supplied
// at construction time -- the Bitcoin-block-like shape the core's
// documentation describes (a block depends on its previous block plus the
// transactions it holds, and a transaction consumes and produces assets)
// but that Blob, with its always-zero parent and resource counts, never
// exercises.
type Composite struct {
	id        Id
	intrinsic []byte
	parents   []Id
	resources []Resource

	extMu     extMutex
	extrinsic []byte
	traceable bool
	invalid   bool
	invalidErr error
}

// NewComposite builds a Composite Acid. Id is derived from intrinsic via
// the package HashFunc, same as Blob.
func NewComposite(intrinsic []byte, parents []Id, resources []Resource, extrinsic []byte) *Composite {
	return &Composite{
		id:        HashFunc(intrinsic),
		intrinsic: intrinsic,
		parents:   parents,
		resources: resources,
		extrinsic: extrinsic,
	}
}

func (c *Composite) Id() Id            { return c.id }
func (c *Composite) Intrinsic() []byte { return c.intrinsic }
func (c *Composite) ParentCount() int  { return len(c.parents) }

func (c *Composite) Parent(i int) (Id, bool) {
	if i < 0 || i >= len(c.parents) {
		return Id{}, false
	}
	return c.parents[i], true
}

func (c *Composite) ResourceCount() int { return len(c.resources) }

func (c *Composite) Resource(i int) (Resource, bool) {
	if i < 0 || i >= len(c.resources) {
		return Resource{}, false
	}
	return c.resources[i], true
}

func (c *Composite) Extrinsic() []byte {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	return c.extrinsic
}

// IsTraceable reports true once SetTraceable has been called on this
// Composite, or always if it has no parents; a Composite with parents
// starts untraced, unlike Blob which has none to wait for.
func (c *Composite) IsTraceable() bool {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	return c.traceable || len(c.parents) == 0
}

func (c *Composite) SetTraceable() bool {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	if c.traceable || len(c.parents) == 0 {
		return false
	}
	c.traceable = true
	return true
}

func (c *Composite) IsInvalid() bool {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	return c.invalid
}

func (c *Composite) InvalidReason() error {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	return c.invalidErr
}

// Invalidate marks c invalid. Once invalid, later calls do nothing --
// validity is monotone.
func (c *Composite) Invalidate(reason error) {
	c.extMu.Lock()
	defer c.extMu.Unlock()
	if !c.invalid {
		c.invalid = true
		c.invalidErr = reason
	}
}

func (c *Composite) Merge(other Acid) bool {
	changed := false
	if other.IsTraceable() && c.SetTraceable() {
		changed = true
	}
	if o, ok := other.(*Composite); ok {
		if reason := o.InvalidReason(); o.IsInvalid() {
			c.extMu.Lock()
			if !c.invalid {
				c.invalid = true
				c.invalidErr = reason
				changed = true
			}
			c.extMu.Unlock()
		}
	}
	return changed
}

func (c *Composite) TypeId() TypeId { return TypeIdComposite }

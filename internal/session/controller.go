package session

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/wcatz/widget-layout/internal/layout"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("session closed")

// FallbackWidth is used when the container has not been measured yet.
const FallbackWidth = 1200

// Options configures a Controller. Every callback is optional.
type Options struct {
	Catalog  *layout.Catalog
	Template layout.Template

	LayoutLocked          bool
	ShowEmptyState        bool
	ShowDrawer            bool
	InitialDrawerOpen     bool
	DocumentationLink     string
	DrawerInstructionText string

	Analytics             AnalyticsFunc
	OnTemplateChange      func(layout.Template)
	OnActiveWidgetsChange func([]string)
	OnDrawerOpenChange    func(bool)

	Logger *slog.Logger
}

type state struct {
	template      layout.Template
	active        layout.Breakpoint
	width         float64
	initialRender bool
	dropping      string
	drawerOpen    bool
	layoutLocked  bool
	emptyShown    bool
	placed        []string
}

// Controller owns the live template of one layout session. All mutations
// run in order on a single goroutine; callers block until theirs ran.
// Host callbacks are delivered in order on a separate goroutine and may
// call back into the controller, but must not call Close.
type Controller struct {
	opts    Options
	catalog *layout.Catalog
	logger  *slog.Logger
	notify  *dispatcher

	st state

	mailbox chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	subsMu     sync.Mutex
	subs       map[int]func()
	nextSub    int
	subsClosed bool
}

// New starts a session. The initial template is normalized.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = layout.NewCatalog()
	}
	if opts.DrawerInstructionText == "" {
		opts.DrawerInstructionText = DefaultDrawerInstructionText
	}

	c := &Controller{
		opts:    opts,
		catalog: opts.Catalog,
		logger:  logger,
		notify:  newDispatcher(logger),
		mailbox: make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
		subs:    make(map[int]func()),
		st: state{
			template:      layout.Normalize(opts.Template),
			active:        layout.Resolve(FallbackWidth),
			width:         FallbackWidth,
			initialRender: true,
			drawerOpen:    opts.InitialDrawerOpen,
			layoutLocked:  opts.LayoutLocked,
		},
	}
	c.st.placed = c.st.template.WidgetTypes(c.st.active)
	go c.loop()
	return c
}

func (c *Controller) loop() {
	defer close(c.stopped)
	for {
		select {
		case fn := <-c.mailbox:
			c.run(fn)
		case <-c.quit:
			return
		}
	}
}

func (c *Controller) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("session operation panicked", "panic", r)
		}
	}()
	fn()
}

// do runs fn on the controller goroutine and waits for it.
func (c *Controller) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case c.mailbox <- func() { defer close(ran); fn() }:
	case <-c.stopped:
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-c.stopped:
		return ErrClosed
	}
}

// Close stops the session, releases every width subscription and delivers
// pending notifications. It is safe to call more than once.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.releaseAll()
		close(c.quit)
		<-c.stopped
		c.notify.stop()
	})
}

// Mount records the first container measurement. A width of zero or less
// means the container is not laid out yet and FallbackWidth is used.
func (c *Controller) Mount(width float64) error {
	if width <= 0 {
		width = FallbackWidth
	}
	return c.do(func() {
		c.setWidth(width)
		c.checkEmptyState()
	})
}

// ObserveWidth handles a resize. Only the active breakpoint changes.
func (c *Controller) ObserveWidth(width float64) error {
	return c.do(func() {
		c.setWidth(width)
		c.checkEmptyState()
	})
}

func (c *Controller) setWidth(width float64) {
	c.st.width = width
	bp := layout.Resolve(width)
	if bp == c.st.active {
		return
	}
	c.logger.Debug("breakpoint changed", "from", c.st.active, "to", bp, "width", width)
	c.st.active = bp
	c.refreshPlaced(false)
}

// Attach subscribes the session to a width observer. The returned release
// is idempotent; Close releases every subscription still attached.
func (c *Controller) Attach(src WidthSource) (func(), error) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if c.subsClosed {
		return nil, ErrClosed
	}

	var released atomic.Bool
	unsubscribe := src.Subscribe(func(width float64) {
		if released.Load() {
			return
		}
		if err := c.ObserveWidth(width); err != nil {
			c.logger.Debug("width dropped", "width", width, "err", err)
		}
	})

	id := c.nextSub
	c.nextSub++
	var once sync.Once
	release := func() {
		once.Do(func() {
			released.Store(true)
			unsubscribe()
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
		})
	}
	c.subs[id] = release
	return release, nil
}

func (c *Controller) releaseAll() {
	c.subsMu.Lock()
	c.subsClosed = true
	releases := make([]func(), 0, len(c.subs))
	for _, r := range c.subs {
		releases = append(releases, r)
	}
	c.subsMu.Unlock()
	for _, r := range releases {
		r()
	}
}

// LayoutChange applies an arrangement reported by the grid for the active
// breakpoint after a move or resize. The first report after the session
// starts is the initial render and only announces the placed widgets.
func (c *Controller) LayoutChange(raw []layout.Item) error {
	return c.do(func() {
		if c.st.initialRender {
			c.st.initialRender = false
			c.refreshPlaced(true)
			return
		}
		if c.st.layoutLocked || c.st.dropping != "" {
			return
		}

		current := c.st.template.Layout(c.st.active)
		items := make([]layout.Item, len(raw))
		for i, it := range raw {
			if prev, ok := findItem(current, it.ID); ok {
				// the grid reports geometry only; static items keep theirs
				if !prev.Static {
					prev.X, prev.Y, prev.W, prev.H = it.X, it.Y, it.W, it.H
				}
				it = prev
			}
			items[i] = it
		}

		next := c.st.template.Clone()
		next[c.st.active] = items
		c.commit("layout-change", layout.Normalize(next))
	})
}

// DragEnter marks a catalog entry as being dragged over the grid.
func (c *Controller) DragEnter(widgetType string) error {
	return c.do(func() {
		if c.st.layoutLocked || !c.catalog.Has(widgetType) {
			return
		}
		c.st.dropping = widgetType
		c.checkEmptyState()
	})
}

// DragLeave clears the in-flight drop without placing anything.
func (c *Controller) DragLeave() error {
	return c.do(func() {
		c.st.dropping = ""
		c.checkEmptyState()
	})
}

// TileDragStart is called when an existing tile starts moving.
func (c *Controller) TileDragStart(id string) error {
	return c.do(func() {
		c.st.dropping = ""
		it, ok := findItem(c.st.template.Layout(c.st.active), id)
		if !ok || it.Static || c.st.layoutLocked {
			return
		}
		c.track(EventWidgetMove, map[string]any{"widgetType": it.WidgetType})
	})
}

// DropPlaceholder returns the placeholder item for the in-flight drop.
func (c *Controller) DropPlaceholder() (layout.Item, bool, error) {
	var (
		it layout.Item
		ok bool
	)
	err := c.do(func() {
		if c.st.dropping == "" {
			return
		}
		it, ok = layout.Placeholder(c.catalog, c.st.dropping)
	})
	return it, ok, err
}

// Drop places a catalog entry released over the grid at landing.
// Unknown widget types and drops on a locked layout do nothing.
func (c *Controller) Drop(widgetType string, landing layout.Item) error {
	return c.do(func() {
		c.st.dropping = ""
		if c.st.layoutLocked {
			c.checkEmptyState()
			return
		}
		next, ok := layout.PlaceDrop(c.st.template, c.st.active, c.catalog, widgetType, landing)
		if !ok {
			c.logger.Debug("drop ignored", "widgetType", widgetType)
			c.checkEmptyState()
			return
		}
		c.commit("drop", next)
		c.track(EventWidgetAdd, map[string]any{"data": widgetType})
	})
}

// ToggleLock flips the static flag of id in every breakpoint.
func (c *Controller) ToggleLock(id string) error {
	return c.do(func() {
		it, ok := c.lookup(id)
		if !ok {
			return
		}
		c.setStatic(id, !it.Static)
	})
}

// SetStatic sets the static flag of id in every breakpoint.
func (c *Controller) SetStatic(id string, static bool) error {
	return c.do(func() {
		if !c.st.template.Contains(id) {
			return
		}
		c.setStatic(id, static)
	})
}

func (c *Controller) setStatic(id string, static bool) {
	next := c.st.template.MapItems(id, func(it layout.Item) layout.Item {
		it.Static = static
		return it
	})
	c.commit("lock", next)
}

// Maximize sets the height of id to its maximum.
func (c *Controller) Maximize(id string) error {
	return c.do(func() { c.resizeHeight(id, maxHeight) })
}

// Minimize sets the height of id to its minimum.
func (c *Controller) Minimize(id string) error {
	return c.do(func() { c.resizeHeight(id, minHeight) })
}

func (c *Controller) resizeHeight(id string, target func(layout.Item) int) {
	it, ok := findItem(c.st.template.Layout(c.st.active), id)
	if !ok || it.Static {
		return
	}
	h := target(it)
	if h == it.H {
		return
	}
	next := c.st.template.MapItems(id, func(it layout.Item) layout.Item {
		it.H = h
		return it
	})
	c.commit("resize", next)
}

// Remove deletes id from every breakpoint. Locked items cannot be removed.
func (c *Controller) Remove(id string) error {
	return c.do(func() {
		it, ok := c.lookup(id)
		if !ok || it.Static {
			return
		}
		c.commit("remove", c.st.template.RemoveItem(id))
		c.track(EventWidgetRemove, map[string]any{"widgetType": it.WidgetType})
	})
}

// SetTemplate replaces the template from the host. The host is not
// notified since it supplied the value.
func (c *Controller) SetTemplate(t layout.Template) error {
	return c.do(func() {
		c.st.template = layout.Normalize(t)
		c.refreshPlaced(false)
		c.checkEmptyState()
	})
}

// SetLayoutLocked locks or unlocks the whole layout.
func (c *Controller) SetLayoutLocked(locked bool) error {
	return c.do(func() {
		c.st.layoutLocked = locked
		if locked {
			c.st.dropping = ""
		}
	})
}

// SetDrawerOpen opens or closes the add-widget drawer.
func (c *Controller) SetDrawerOpen(open bool) error {
	return c.do(func() { c.setDrawerOpen(open) })
}

func (c *Controller) setDrawerOpen(open bool) {
	if c.st.drawerOpen == open {
		return
	}
	c.st.drawerOpen = open
	if fn := c.opts.OnDrawerOpenChange; fn != nil {
		c.notify.post(func() { fn(open) })
	}
}

// Template returns a copy of the committed template.
func (c *Controller) Template() (layout.Template, error) {
	var t layout.Template
	err := c.do(func() { t = c.st.template.Clone() })
	return t, err
}

// Drawer returns the entries not yet placed at the active breakpoint,
// fuzzy-filtered by query.
func (c *Controller) Drawer(query string) ([]DrawerEntry, error) {
	var out []DrawerEntry
	err := c.do(func() {
		entries := layout.AvailableForDrawer(c.catalog, c.st.placed)
		out = drawerEntries(layout.SearchDrawer(entries, query))
	})
	return out, err
}

// Snapshot returns the read model for renderers.
func (c *Controller) Snapshot() (View, error) {
	var v View
	err := c.do(func() { v = c.view() })
	return v, err
}

func (c *Controller) view() View {
	cols := c.st.active.Columns()
	v := View{
		Breakpoint:            c.st.active,
		Width:                 c.st.width,
		Columns:               cols,
		Template:              c.st.template.Clone(),
		Drawer:                drawerEntries(layout.AvailableForDrawer(c.catalog, c.st.placed)),
		DrawerOpen:            c.st.drawerOpen,
		ShowDrawer:            c.opts.ShowDrawer,
		EmptyState:            c.emptyState(),
		LayoutLocked:          c.st.layoutLocked,
		Dropping:              c.st.dropping,
		PlacedTypes:           slices.Clone(c.st.placed),
		DocumentationLink:     c.opts.DocumentationLink,
		DrawerInstructionText: c.opts.DrawerInstructionText,
	}
	if p, ok := layout.Placeholder(c.catalog, c.st.dropping); ok {
		v.Placeholder = &p
	}

	for _, it := range v.Template.Layout(c.st.active) {
		e, ok := c.catalog.Lookup(it.WidgetType)
		if !ok {
			continue
		}
		t := Tile{
			Item:     it,
			Title:    e.DisplayTitle(),
			ColWidth: c.st.width / float64(cols),
			Actions:  tileActions(it, c.st.layoutLocked),
		}
		if e.Config != nil {
			t.Icon = e.Config.Icon
			t.HeaderLink = e.Config.HeaderLink
			t.Props = e.Config.Props
		}
		if e.Render != nil {
			t.Content = e.Render(it.ID)
		}
		v.Tiles = append(v.Tiles, t)
	}
	return v
}

func (c *Controller) commit(op string, next layout.Template) {
	c.st.template = next
	c.logger.Debug("template committed", "op", op, "breakpoint", c.st.active)
	if fn := c.opts.OnTemplateChange; fn != nil {
		snapshot := next.Clone()
		c.notify.post(func() { fn(snapshot) })
	}
	c.refreshPlaced(false)
	c.checkEmptyState()
}

// refreshPlaced recomputes the placed widget types of the active
// arrangement and notifies the host when they changed or force is set.
func (c *Controller) refreshPlaced(force bool) {
	placed := c.st.template.WidgetTypes(c.st.active)
	if !force && slices.Equal(placed, c.st.placed) {
		return
	}
	c.st.placed = placed
	if fn := c.opts.OnActiveWidgetsChange; fn != nil {
		snapshot := slices.Clone(placed)
		c.notify.post(func() { fn(snapshot) })
	}
}

func (c *Controller) emptyState() bool {
	return c.opts.ShowEmptyState && c.st.dropping == "" && len(c.st.template.Layout(c.st.active)) == 0
}

// checkEmptyState opens the drawer each time the empty state appears.
func (c *Controller) checkEmptyState() {
	shown := c.emptyState()
	if shown && !c.st.emptyShown {
		c.setDrawerOpen(true)
	}
	c.st.emptyShown = shown
}

func (c *Controller) track(event string, payload map[string]any) {
	fn := c.opts.Analytics
	if fn == nil {
		return
	}
	c.notify.post(func() { fn(event, payload) })
}

// lookup finds id at the active breakpoint, then anywhere else.
func (c *Controller) lookup(id string) (layout.Item, bool) {
	if it, ok := findItem(c.st.template.Layout(c.st.active), id); ok {
		return it, true
	}
	for _, bp := range layout.Breakpoints {
		if it, ok := c.st.template.Find(bp, id); ok {
			return it, true
		}
	}
	return layout.Item{}, false
}

func findItem(items []layout.Item, id string) (layout.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return layout.Item{}, false
}

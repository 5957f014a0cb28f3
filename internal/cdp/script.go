package cdp

// installScript sets up the in-page helper the adapter talks to: a stable
// element ref registry, capture-phase event buffering, and a drain hook.
// Installation is idempotent; re-evaluating on an already-hooked page is a
// no-op.
const installScript = `
() => {
	if (window.__pinpoint) return true;

	const refs = new Map();
	const ids = new WeakMap();
	let next = 1;
	const queue = [];
	const capture = { pointermove: false, click: false };

	const refOf = (el) => {
		if (!el || el.nodeType !== 1) return null;
		let id = ids.get(el);
		if (!id) {
			id = 'el-' + (next++);
			ids.set(el, id);
			refs.set(id, el);
		}
		return id;
	};

	document.addEventListener('pointermove', (ev) => {
		if (!capture.pointermove) return;
		const id = refOf(ev.target);
		if (id) queue.push({ kind: 'pointermove', ref: id });
	}, true);

	// While click capture is on, the selection click must never reach the
	// host page: suppress it in the capture phase before any host handler
	// can run.
	document.addEventListener('click', (ev) => {
		if (!capture.click) return;
		ev.preventDefault();
		ev.stopPropagation();
		ev.stopImmediatePropagation();
		const id = refOf(ev.target);
		if (id) queue.push({ kind: 'click', ref: id });
	}, true);

	window.__pinpoint = {
		refOf,
		get: (id) => refs.get(id) || null,
		capture,
		drain: () => queue.splice(0, queue.length),
	};
	return true;
}
`

// setCaptureScript toggles buffering (and, for clicks, suppression) of one
// event kind. Args: kind, enabled.
const setCaptureScript = `
(kind, enabled) => {
	if (!window.__pinpoint) return false;
	window.__pinpoint.capture[kind] = !!enabled;
	return true;
}
`

// drainScript returns and clears the buffered events.
const drainScript = `
() => window.__pinpoint ? window.__pinpoint.drain() : []
`

// elementInfoScript returns a snapshot of one element. Args: ref.
const elementInfoScript = `
(id) => {
	const el = window.__pinpoint.get(id);
	if (!el) return null;
	const attrs = [];
	for (const a of el.attributes) attrs.push({ name: a.name, value: a.value });
	const r = el.getBoundingClientRect();
	return {
		tag: el.tagName.toLowerCase(),
		attrs,
		text: (el.innerText || '').trim(),
		rect: { top: r.top, left: r.left, width: r.width, height: r.height },
		parent: el.parentElement ? window.__pinpoint.refOf(el.parentElement) : null,
	};
}
`

// appendNodeScript creates an inspector-owned node in the body and returns
// its ref. Args: tag.
const appendNodeScript = `
(tag) => {
	const el = document.createElement(tag);
	el.setAttribute('data-pinpoint-owned', '');
	document.body.appendChild(el);
	return window.__pinpoint.refOf(el);
}
`

// ownsNodeScript reports whether an element is inspector-owned or inside
// an inspector-owned subtree. Args: ref.
const ownsNodeScript = `
(id) => {
	const el = window.__pinpoint.get(id);
	return !!(el && el.closest && el.closest('[data-pinpoint-owned]'));
}
`

// setStyleScript applies one style property. Args: ref, prop, value.
const setStyleScript = `
(id, prop, value) => {
	const el = window.__pinpoint.get(id);
	if (el) el.style.setProperty(prop, value, 'important');
	return true;
}
`

// setTextScript replaces an element's text. Args: ref, text.
const setTextScript = `
(id, text) => {
	const el = window.__pinpoint.get(id);
	if (el) el.textContent = text;
	return true;
}
`

// removeNodeScript detaches an element. Args: ref.
const removeNodeScript = `
(id) => {
	const el = window.__pinpoint.get(id);
	if (el && el.parentNode) el.parentNode.removeChild(el);
	return true;
}
`

// setCursorScript overrides (or, with '', restores) the page cursor.
// Args: cursor.
const setCursorScript = `
(cursor) => {
	document.documentElement.style.cursor = cursor;
	return true;
}
`

// querySelectorScript resolves a CSS selector to an element ref, or null.
// Args: selector.
const querySelectorScript = `
(selector) => {
	let el = null;
	try {
		el = document.querySelector(selector);
	} catch (e) {
		return null;
	}
	return el ? window.__pinpoint.refOf(el) : null;
}
`

// instrumentationActiveScript probes for React fiber instrumentation: the
// devtools hook, or a fiber key on the root or a nearby descendant.
const instrumentationActiveScript = `
() => {
	const probe = (el) => !!el && Object.keys(el).some((k) => k.startsWith('__reactFiber$'));
	const hook = window.__REACT_DEVTOOLS_GLOBAL_HOOK__;
	if (hook && hook.renderers && hook.renderers.size > 0) return true;
	const root = document.getElementById('root') || document.getElementById('__next') || document.body;
	if (probe(root)) return true;
	if (!root) return false;
	let checked = 0;
	for (const el of root.querySelectorAll('*')) {
		if (probe(el)) return true;
		if (++checked >= 50) break;
	}
	return false;
}
`

// fiberSnapshotScript walks the composition tree upward from the fiber
// mapped to an element, recording name and compositeness per node.
// Args: ref.
const fiberSnapshotScript = `
(id) => {
	const el = window.__pinpoint.get(id);
	if (!el) return null;
	const key = Object.keys(el).find((k) => k.startsWith('__reactFiber$'));
	if (!key) return null;

	const nameOf = (t) => {
		if (!t) return '';
		if (typeof t === 'string') return t;
		return t.displayName || t.name ||
			(t.render && (t.render.displayName || t.render.name)) || '';
	};

	const nodes = [];
	let cur = el[key];
	let guard = 0;
	while (cur && guard++ < 500) {
		const t = cur.type;
		const composite = typeof t === 'function' ||
			(!!t && typeof t === 'object' && !!(t.displayName || t.render || t.type));
		nodes.push({ name: nameOf(t), composite });
		cur = cur.return;
	}
	return { nodes };
}
`

// ownerStackScript walks the debug owner chain of the fiber mapped to an
// element, emitting one frame per owner that carries a source location.
// Args: ref.
const ownerStackScript = `
(id) => {
	const el = window.__pinpoint.get(id);
	if (!el) return null;
	const key = Object.keys(el).find((k) => k.startsWith('__reactFiber$'));
	if (!key) return null;

	const frames = [];
	let cur = el[key];
	let guard = 0;
	while (cur && guard++ < 100) {
		const t = cur.type;
		const name = (t && (t.displayName || t.name)) || '';
		const src = cur._debugSource;
		if (src && src.fileName) {
			frames.push({
				file: src.fileName,
				fn: name,
				line: src.lineNumber || 0,
				col: src.columnNumber || 0,
			});
		}
		cur = cur._debugOwner;
	}
	return frames;
}
`

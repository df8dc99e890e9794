package collector

// Each snapshot field is read by its own expression so that one failing
// field leaves the rest intact.

const jsClean = `const clean = (t) => t ? t.trim().replace(/\s+/g, ' ') : '';`

func script(body string) string {
	return "(() => { " + jsClean + " return " + body + "; })()"
}

var (
	exprTitle           = script(`document.title || ''`)
	exprURL             = script(`window.location.href`)
	exprMetaDescription = script(`(document.querySelector('meta[name="description"]') || {}).content || ''`)
	exprMetaKeywords    = script(`(document.querySelector('meta[name="keywords"]') || {}).content || ''`)

	exprHeadings = script(`Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6'))
		.map(h => ({ level: h.tagName.toLowerCase(), text: clean(h.textContent) }))
		.filter(h => h.text.length > 0)`)

	exprImages = script(`Array.from(document.querySelectorAll('img'))
		.map(img => ({ src: img.src, alt: clean(img.alt), title: clean(img.title), width: img.naturalWidth, height: img.naturalHeight }))
		.filter(img => img.src && !img.src.includes('data:'))
		.slice(0, 15)`)

	exprLinks = script(`Array.from(document.querySelectorAll('a[href]'))
		.map(a => ({ href: a.href, text: clean(a.textContent), title: clean(a.title) }))
		.filter(l => l.text.length > 0)
		.slice(0, 25)`)

	exprText = script(`clean(document.body ? document.body.textContent : '')`)

	// JSON-LD is returned as raw text and parsed on our side.
	exprStructuredData = script(`Array.from(document.querySelectorAll('script[type="application/ld+json"]'))
		.map(s => s.textContent || '')`)

	exprPageStats = script(`({
		loadTime: performance.now(),
		imageCount: document.querySelectorAll('img').length,
		linkCount: document.querySelectorAll('a').length,
		scriptCount: document.querySelectorAll('script').length,
		wordCount: clean(document.body ? document.body.textContent : '').split(/\s+/).filter(Boolean).length
	})`)
)

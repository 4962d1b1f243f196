package browser

import (
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"
)

// snapshotJS serialises the document with every reachable iframe document
// inlined as a <div data-captured-iframe="true"> container. It works on a
// clone, so the live page keeps running after a snapshot is taken.
//
// The clone and the live tree share structure, so the n-th iframe of the
// clone corresponds to the n-th live iframe whose contentDocument is read.
// Cross-origin frames (payment widgets) are replaced by an error marker.
const snapshotJS = `() => {
	let iframeCount = 0;

	function inlineIframes(liveRoot, cloneRoot) {
		const live = liveRoot.querySelectorAll('iframe');
		const clones = cloneRoot.querySelectorAll('iframe');

		live.forEach((iframe, i) => {
			const target = clones[i];
			if (!target) return;

			const container = document.createElement('div');
			container.setAttribute('data-captured-iframe', 'true');
			container.setAttribute('data-iframe-src', iframe.src || '');
			container.setAttribute('data-iframe-id', iframe.id || '');
			container.setAttribute('data-iframe-name', iframe.name || '');

			try {
				const doc = iframe.contentDocument || (iframe.contentWindow && iframe.contentWindow.document);
				if (!doc || !doc.body) {
					throw new Error('no contentDocument available');
				}

				// Depth-first: nested frames are inlined into the body clone first
				const body = doc.body.cloneNode(true);
				inlineIframes(doc.body, body);

				if (doc.head) {
					doc.head.querySelectorAll('style').forEach((style) => {
						const s = document.createElement('style');
						s.setAttribute('data-from-iframe', 'true');
						s.textContent = style.textContent;
						container.appendChild(s);
					});
				}
				container.insertAdjacentHTML('beforeend', body.innerHTML);
				iframeCount++;
			} catch (e) {
				container.setAttribute('data-iframe-error', e.message);
				container.textContent = '[iframe not accessible: ' + e.message + ']';
			}

			target.parentNode.replaceChild(container, target);
		});
	}

	const root = document.documentElement.cloneNode(true);
	inlineIframes(document.documentElement, root);

	return JSON.stringify({
		html: root.outerHTML,
		iframeCount: iframeCount
	});
}`

type snapshotResult struct {
	HTML        string `json:"html"`
	IframeCount int    `json:"iframeCount"`
}

// Snapshot returns the page HTML with iframe documents inlined, and the
// number of iframes that could be inlined. On JS eval failure it falls back
// to plain page.HTML().
func Snapshot(page *rod.Page) (html string, iframeCount int, err error) {
	res, evalErr := page.Eval(snapshotJS)
	if evalErr != nil {
		html, err = page.HTML()
		if err != nil {
			return "", 0, fmt.Errorf("snapshot eval failed and fallback HTML failed: %w", err)
		}
		return html, 0, nil
	}

	var result snapshotResult
	if err := json.Unmarshal([]byte(res.Value.Str()), &result); err != nil {
		html, htmlErr := page.HTML()
		if htmlErr != nil {
			return "", 0, fmt.Errorf("snapshot JSON parse failed and fallback HTML failed: %w", htmlErr)
		}
		return html, 0, nil
	}

	return result.HTML, result.IframeCount, nil
}

package annotate

import (
	"fmt"

	"github.com/jkirker/Page-Exec-Timer/internal/domcount"
)

// Script returns the inline footer script that measures the rendered DOM
// once the page load settles. The script runs during browser idle time,
// counts elements via the live tag collection, walks every node unless the
// element count already exceeds the ceiling, then records the results as
// data attributes and a trailing comment on the document root. Every DOM
// mutation is wrapped so a locked-down or exotic browser can only lose the
// measurement, never break the page.
func Script(ceiling int) string {
	if ceiling <= 0 {
		ceiling = domcount.DefaultCeiling
	}
	return fmt.Sprintf(domScript, ceiling)
}

const domScript = `<script>
(function () {
  'use strict';
  if (window.__pageTimerDomCounted) { return; }
  window.__pageTimerDomCounted = true;

  var CEILING = %d;

  function now() {
    return (window.performance && performance.now) ? performance.now() : Date.now();
  }

  function measure() {
    try {
      var t0 = now();
      var elements = document.getElementsByTagName('*').length;
      var fastMs = now() - t0;

      var allNodes = elements;
      var truncated = false;
      var walkMs = 0;

      if (elements > CEILING) {
        truncated = true;
      } else {
        var t1 = now();
        var count = 0;
        var stack = [document];
        while (stack.length > 0) {
          var node = stack.pop();
          count++;
          if (count > CEILING) { truncated = true; break; }
          var child = node.firstChild;
          while (child) { stack.push(child); child = child.nextSibling; }
        }
        walkMs = now() - t1;
        allNodes = count;
      }

      var summary = ' DOM: ' + elements + ' elements, ' + allNodes + ' nodes' +
        (truncated ? ' (truncated)' : '') +
        ', count ' + fastMs.toFixed(2) + 'ms, walk ' + walkMs.toFixed(2) + 'ms ';

      try {
        var root = document.documentElement;
        root.setAttribute('data-dom-elements', String(elements));
        root.setAttribute('data-dom-allnodes', String(allNodes));
        root.appendChild(document.createComment(summary));
      } catch (err) {}

      try {
        if (window.localStorage && localStorage.getItem('pagetimer.debug')) {
          console.log('[pagetimer]' + summary);
        }
      } catch (err) {}
    } catch (err) {}
  }

  function schedule() {
    if (typeof window.requestIdleCallback === 'function') {
      window.requestIdleCallback(measure, { timeout: 2000 });
      return;
    }
    if (typeof window.requestAnimationFrame === 'function') {
      window.requestAnimationFrame(function () { setTimeout(measure, 0); });
      return;
    }
    setTimeout(measure, 0);
  }

  if (document.readyState === 'complete') {
    schedule();
  } else {
    window.addEventListener('load', schedule);
  }
})();
</script>`

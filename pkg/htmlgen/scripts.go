package htmlgen

// baseCSS is inlined into every generated page.
const baseCSS = `*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; -webkit-font-smoothing: antialiased; }
img { max-width: 100%; height: auto; }
main[data-page] { max-width: 640px; margin: 0 auto; }
.carousel-track::-webkit-scrollbar { display: none; }
[data-animate] { opacity: 0; transform: translateY(24px); transition: opacity 0.6s ease-out, transform 0.6s ease-out; }
[data-animate].visible { opacity: 1; transform: translateY(0); }`

// Client scripts, one per attribute contract. Each is a self-contained IIFE
// that does nothing when its marker attribute is absent.

const carouselScript = `(function() {
  document.querySelectorAll('[data-carousel]').forEach(function(el) {
    if (el.dataset.autoplay !== 'true') return;
    var track = el.querySelector('.carousel-track');
    if (!track || track.children.length < 2) return;
    var interval = parseInt(el.dataset.interval, 10) || 3000;
    var index = 0;
    var count = track.children.length;
    setInterval(function() {
      index = (index + 1) % count;
      track.scrollTo({ left: track.offsetWidth * index, behavior: 'smooth' });
    }, interval);
  });
})();`

const floatingCTAScript = `(function() {
  document.querySelectorAll('[data-floating-cta]').forEach(function(el) {
    var pos = el.dataset.position || 'bottom-center';
    el.style.position = 'fixed';
    el.style.bottom = '0';
    el.style.zIndex = '50';
    el.style.padding = '16px';
    if (pos === 'bottom-center') {
      el.style.left = '0';
      el.style.right = '0';
      el.style.textAlign = 'center';
    } else {
      el.style.right = '0';
      el.style.textAlign = 'right';
    }
  });
})();`

const countdownScript = `(function() {
  var suffix = { days: 'd', hours: 'h', minutes: 'm', seconds: 's' };
  function pad(n) { return String(n).padStart(2, '0'); }
  document.querySelectorAll('[data-countdown]').forEach(function(el) {
    var target = new Date(el.dataset.countdown).getTime();
    if (isNaN(target)) return;
    var expiredText = el.dataset.expiredText || '';
    var showDays = el.dataset.showDays !== 'false';
    var style = el.dataset.style || 'card';
    function update() {
      var diff = target - Date.now();
      if (diff <= 0) {
        el.textContent = '';
        var p = document.createElement('p');
        p.style.cssText = 'font-size:16px;font-weight:500';
        p.textContent = expiredText;
        el.appendChild(p);
        return;
      }
      var parts = {
        days: Math.floor(diff / 86400000),
        hours: Math.floor((diff % 86400000) / 3600000),
        minutes: Math.floor((diff % 3600000) / 60000),
        seconds: Math.floor((diff % 60000) / 1000)
      };
      if (!showDays) parts.hours += parts.days * 24;
      var keys = showDays ? ['days', 'hours', 'minutes', 'seconds'] : ['hours', 'minutes', 'seconds'];
      if (style === 'minimal') {
        var textEl = el.querySelector('p') || el;
        textEl.textContent = keys.map(function(k) { return pad(parts[k]) + suffix[k]; }).join(' ');
      } else {
        keys.forEach(function(k) {
          var cell = el.querySelector('[data-unit="' + k + '"]');
          if (cell) cell.textContent = pad(parts[k]);
        });
      }
      setTimeout(update, 1000 - (Date.now() % 1000));
    }
    update();
  });
})();`

const animateScript = `(function() {
  var root = document.querySelector('main[data-page]');
  if (!root) return;
  var els = root.children;
  for (var i = 0; i < els.length; i++) {
    if (!els[i].hasAttribute('data-floating-cta')) els[i].setAttribute('data-animate', '');
  }
  if (!('IntersectionObserver' in window)) {
    for (var j = 0; j < els.length; j++) els[j].classList.add('visible');
    return;
  }
  var observer = new IntersectionObserver(function(entries) {
    entries.forEach(function(entry) {
      if (entry.isIntersecting) { entry.target.classList.add('visible'); observer.unobserve(entry.target); }
    });
  }, { threshold: 0.1 });
  document.querySelectorAll('[data-animate]').forEach(function(el) { observer.observe(el); });
})();`

// formScript posts form wrappers to the endpoint named by the body's
// data-form-endpoint attribute.
const formScript = `(function() {
  var endpoint = document.body.dataset.formEndpoint;
  document.querySelectorAll('[data-promo-form]').forEach(function(wrapper) {
    var form = wrapper.querySelector('form');
    if (!form || !endpoint) return;
    var successMsg = wrapper.dataset.successMessage || 'Submitted!';
    var btn = form.querySelector('button[type="submit"]');
    var originalText = btn ? btn.textContent : '';
    function reset() { if (btn) { btn.disabled = false; btn.textContent = originalText; } }
    form.addEventListener('submit', function(e) {
      e.preventDefault();
      if (btn) { btn.disabled = true; btn.textContent = '...'; }
      var data = {};
      new FormData(form).forEach(function(v, k) { data[k] = v; });
      fetch(endpoint, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(data)
      }).then(function(r) { return r.json(); }).then(function(res) {
        if (!res.ok) { reset(); return; }
        wrapper.textContent = '';
        var d = document.createElement('div');
        d.style.cssText = 'padding:32px 16px;text-align:center';
        var p = document.createElement('p');
        p.style.cssText = 'font-size:18px;font-weight:600;color:#16a34a';
        p.textContent = successMsg;
        d.appendChild(p);
        wrapper.appendChild(d);
      }).catch(reset);
    });
  });
})();`

// scripts lists the client scripts in page order, keyed by the marker
// attribute that makes each one necessary. An empty marker means always.
var scripts = []struct {
	marker string
	body   string
}{
	{"data-carousel", carouselScript},
	{"data-floating-cta", floatingCTAScript},
	{"data-countdown", countdownScript},
	{"", animateScript},
	{"data-promo-form", formScript},
}

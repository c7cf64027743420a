package handler

// indexPage is the single-file report UI. It talks to the JSON API only;
// everything it shows comes from /api/generate_report responses.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Retail Feed Reports</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f1f5f9; color: #1e293b; }
  .wrap { max-width: 1100px; margin: 0 auto; padding: 24px; }
  h1 { font-size: 22px; margin: 0 0 16px; }
  .panel { background: #fff; border-radius: 8px; padding: 16px 20px; margin-bottom: 16px; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
  .row { display: flex; flex-wrap: wrap; gap: 16px; align-items: flex-end; }
  label { display: block; font-size: 12px; color: #64748b; margin-bottom: 4px; }
  select, input[type=date] { padding: 6px 8px; border: 1px solid #cbd5e1; border-radius: 6px; }
  .checks { display: flex; gap: 14px; flex-wrap: wrap; }
  .checks label { display: flex; align-items: center; gap: 4px; font-size: 14px; color: #1e293b; margin: 0; }
  button { padding: 8px 18px; border: 0; border-radius: 6px; background: #2563eb; color: #fff; cursor: pointer; }
  button.secondary { background: #64748b; }
  button:disabled { opacity: .5; cursor: default; }
  table { border-collapse: collapse; width: 100%; font-size: 14px; }
  th, td { border-bottom: 1px solid #e2e8f0; padding: 6px 10px; text-align: left; }
  th { background: #f8fafc; }
  td.num, th.num { text-align: right; }
  #status { font-size: 13px; color: #64748b; margin-left: 8px; }
  #summary { font-size: 14px; line-height: 1.6; }
  #period2 { display: none; }
</style>
</head>
<body>
<div class="wrap">
  <h1>Retail Feed Reports</h1>

  <div class="panel">
    <div class="row">
      <div>
        <label for="kind">Report</label>
        <select id="kind" onchange="onKindChange()">
          <option value="sales">Sales</option>
          <option value="losses">Losses</option>
          <option value="comparison">Period comparison</option>
          <option value="detailed_losses">Detailed losses</option>
        </select>
      </div>
      <div><label for="start">Start</label><input type="date" id="start" value="2025-06-01"></div>
      <div><label for="end">End</label><input type="date" id="end" value="2025-06-03"></div>
      <div id="period2" class="row">
        <div><label for="start2">Start (period 2)</label><input type="date" id="start2" value="2025-06-08"></div>
        <div><label for="end2">End (period 2)</label><input type="date" id="end2" value="2025-06-10"></div>
      </div>
    </div>
    <div class="row" style="margin-top:12px">
      <div>
        <label>Cities</label>
        <div class="checks" id="cities">
          <label><input type="checkbox" value="khar" checked>Kharkiv</label>
          <label><input type="checkbox" value="kiev" checked>Kyiv</label>
          <label><input type="checkbox" value="dnepr" checked>Dnipro</label>
          <label><input type="checkbox" value="bel" checked>Bila Tserkva</label>
        </div>
      </div>
      <div>
        <label>Group by</label>
        <div class="checks" id="groups">
          <label><input type="checkbox" value="city" checked>City</label>
          <label><input type="checkbox" value="shop" checked>Shop</label>
          <label><input type="checkbox" value="type">Type</label>
          <label><input type="checkbox" value="date">Date</label>
        </div>
      </div>
    </div>
    <div class="row" style="margin-top:16px">
      <button id="go" onclick="generateReport()">Generate</button>
      <button class="secondary" onclick="exportReport('csv')">Export CSV</button>
      <button class="secondary" onclick="exportReport('xlsx')">Export Excel</button>
      <span id="status"></span>
    </div>
  </div>

  <div class="panel"><div id="summary">No report yet.</div></div>
  <div class="panel" style="overflow-x:auto"><div id="results"></div></div>
</div>

<script>
function onKindChange() {
  const cmp = document.getElementById('kind').value === 'comparison';
  document.getElementById('period2').style.display = cmp ? 'flex' : 'none';
}

function checkedValues(id) {
  return Array.from(document.querySelectorAll('#' + id + ' input:checked')).map(i => i.value);
}

function buildRequest() {
  const req = {
    report_type: document.getElementById('kind').value,
    start_date: document.getElementById('start').value,
    end_date: document.getElementById('end').value,
    cities: checkedValues('cities'),
    group_by: checkedValues('groups')
  };
  if (req.report_type === 'comparison') {
    req.start_date2 = document.getElementById('start2').value;
    req.end_date2 = document.getElementById('end2').value;
  }
  return req;
}

async function generateReport() {
  const btn = document.getElementById('go');
  const status = document.getElementById('status');
  btn.disabled = true;
  status.textContent = 'Loading feed data...';
  try {
    const resp = await fetch('/api/generate_report', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(buildRequest())
    });
    const body = await resp.json();
    if (body.status !== 'success') throw new Error(body.error || 'report failed');
    render(body.data);
    status.textContent = '';
  } catch (e) {
    status.textContent = e.message;
  } finally {
    btn.disabled = false;
  }
}

async function exportReport(format) {
  const status = document.getElementById('status');
  status.textContent = 'Exporting...';
  try {
    const req = buildRequest();
    req.format = format;
    const resp = await fetch('/api/export', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(req)
    });
    const body = await resp.json();
    if (body.status !== 'success') throw new Error(body.error || 'export failed');
    status.textContent = '';
    window.location = '/api/reports/' + encodeURIComponent(body.data.filename);
  } catch (e) {
    status.textContent = e.message;
  }
}

function render(result) {
  const s = result.summary;
  let html = '<b>' + s.rows + '</b> rows, <b>' + s.shops + '</b> shops, total amount <b>' +
    s.total.amount + '</b>, total count <b>' + s.total.count + '</b>, avg per shop <b>' +
    s.avg_per_shop + '</b>';
  if (s.city_rollups) {
    html += '<br>' + s.city_rollups.map(r => r.label + ': ' + r.measure.amount).join(' | ');
  }
  if (s.top_by_value && s.top_by_value.length) {
    html += '<br>Top shops: ' + s.top_by_value.map(e => e.label + ' (' + e.value + ')').join(', ');
  }
  document.getElementById('summary').innerHTML = html;

  const rows = result.rows || [];
  if (!rows.length) {
    document.getElementById('results').innerHTML = 'No rows.';
    return;
  }
  const hasShop = rows.some(r => r.shop_id);
  const hasType = rows.some(r => r.loss_type_id);
  const hasDate = rows.some(r => r.date);
  const cmp = result.report_type === 'comparison';

  let t = '<table><tr><th>City</th>';
  if (hasShop) t += '<th>Shop</th>';
  if (hasType) t += '<th>Type</th>';
  if (hasDate) t += '<th>Date</th>';
  t += '<th class=num>Count</th><th class=num>Amount</th><th class=num>Qty</th>';
  if (cmp) t += '<th class=num>Amount P2</th><th class=num>Change</th><th class=num>Change %</th>';
  t += '</tr>';
  for (const r of rows) {
    t += '<tr><td>' + r.city + '</td>';
    if (hasShop) t += '<td>' + (r.shop_name || '') + '</td>';
    if (hasType) t += '<td>' + (r.loss_type_name || '') + '</td>';
    if (hasDate) t += '<td>' + (r.date || '') + '</td>';
    t += '<td class=num>' + r.measure.count + '</td><td class=num>' + r.measure.amount +
      '</td><td class=num>' + r.measure.qty + '</td>';
    if (cmp) {
      t += '<td class=num>' + r.period2.amount + '</td><td class=num>' + r.change.amount +
        '</td><td class=num>' + r.change.amount_pct + '</td>';
    }
    t += '</tr>';
  }
  t += '</table>';
  document.getElementById('results').innerHTML = t;
}
</script>
</body>
</html>
`

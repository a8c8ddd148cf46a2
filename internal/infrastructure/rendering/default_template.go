package rendering

// defaultInvoiceTemplate is the built-in A4 invoice layout. All monetary
// values come from order snapshots; user-entered strings are escaped by
// html/template.
const defaultInvoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; margin: 40px; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .meta { margin: 12px 0 24px 0; color: #555; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 6px 8px; border-bottom: 1px solid #ddd; text-align: right; }
  th:first-child, td:first-child { text-align: left; }
  th { background: #f5f5f5; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; }
  .totals .grand td { border-top: 2px solid #222; font-weight: bold; }
</style>
</head>
<body>
  <h1>Invoice {{.InvoiceNumber}}</h1>
  <div class="meta">
    Order {{.OrderNumber}}<br>
    Issued {{formatDateTime .IssuedAt}}<br>
    Payment: {{statusText .PaymentMethod}}
  </div>

  <table>
    <thead>
      <tr>
        <th>SKU</th>
        <th>Cases</th>
        <th>Pieces/Case</th>
        <th>Pieces</th>
        <th>Unit Price</th>
        <th>Line Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.SKUCode}}</td>
        <td>{{.CasesOrdered}}</td>
        <td>{{.PiecesPerCase}}</td>
        <td>{{.Pieces}}</td>
        <td>{{formatMoney .UnitPrice}}</td>
        <td>{{formatMoney .LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td>{{formatMoney .Subtotal}}</td></tr>
    {{if ne .DiscountKind "NONE"}}
    <tr><td>Discount ({{statusText .DiscountKind}})</td><td>{{formatMoney .DiscountAmount}}</td></tr>
    {{end}}
    <tr class="grand"><td>Total</td><td>{{formatMoney .TotalAmount}}</td></tr>
  </table>
</body>
</html>
`

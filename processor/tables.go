package processor

import (
	"fmt"
	"strconv"

	"vendas-report/utils"
)

// Table is a finished tabular view: column headers plus cell values, ready
// for whatever renders it (HTML, JSON, text).
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ReportTables are the five views handed to the report emitter.
type ReportTables struct {
	Orders        Table `json:"lancamentos"`
	Registrations Table `json:"mesas_cadastradas"`
	Deletions     Table `json:"itens_deletados"`
	Summary       Table `json:"geral"`
	Ranking       Table `json:"ranking"`
}

// Tables builds the display views. Monetary cells are formatted in the
// regional currency convention as the last step.
func (r *Report) Tables() ReportTables {
	return ReportTables{
		Orders:        r.ordersTable(),
		Registrations: r.registrationsTable(),
		Deletions:     r.deletionsTable(),
		Summary:       r.summaryTable(),
		Ranking:       r.rankingTable(),
	}
}

func (r *Report) ordersTable() Table {
	t := Table{Headers: []string{
		"Nº", "request", "response", "produto", "Qtde", "Data", "Hora",
		"deletar", "valor unitario", "valor total", "mesa", "arquivo_origem",
	}}
	for _, o := range r.Dataset.Orders {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(o.Seq),
			o.Request,
			strconv.Itoa(o.Response),
			o.Product,
			strconv.Itoa(o.Quantity),
			o.Date,
			o.TimeOfDay,
			o.DeleteFlag,
			utils.FormatBRL(o.UnitPrice),
			utils.FormatBRL(o.LineTotal),
			o.Table,
			o.SourceFile,
		})
	}
	return t
}

func (r *Report) registrationsTable() Table {
	t := Table{Headers: []string{"mesa", "request", "response", "arquivo_origem"}}
	for _, reg := range r.Dataset.Registrations {
		t.Rows = append(t.Rows, []string{
			reg.Table,
			reg.Request,
			strconv.Itoa(reg.Response),
			reg.SourceFile,
		})
	}
	return t
}

func (r *Report) deletionsTable() Table {
	t := Table{Headers: []string{"delete_id", "mesa_del_ref", "status", "request", "arquivo_origem"}}
	for _, d := range r.Dataset.Deletions {
		t.Rows = append(t.Rows, []string{
			d.DeleteID,
			d.Table,
			strconv.Itoa(d.Status),
			d.Request,
			d.SourceFile,
		})
	}
	return t
}

func (r *Report) summaryTable() Table {
	return Table{
		Headers: []string{
			"Valor total",
			fmt.Sprintf("Comissão %s", formatRate(r.Config.CommissionRate)),
			fmt.Sprintf("Taxa %s", formatRate(r.Config.FeeRate)),
		},
		Rows: [][]string{{
			utils.FormatBRL(r.Summary.TotalValue),
			utils.FormatBRL(r.Summary.Commission),
			utils.FormatBRL(r.Summary.Fee),
		}},
	}
}

func (r *Report) rankingTable() Table {
	t := Table{Headers: []string{"Posição", "mesa", "valor total"}}
	for _, rank := range r.Ranking {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(rank.Position),
			rank.Table,
			utils.FormatBRL(rank.Total),
		})
	}
	return t
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', -1, 64) + "%"
}

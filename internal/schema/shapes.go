package schema

func wideExtractor() mappedExtractor {
	return mappedExtractor{
		variant: Wide,
		fields: Fields{
			Year:           "事業年度",
			ProjectName:    "事業名",
			Ministry:       "政策所管府省庁",
			ContractName:   "契約概要",
			Contractor:     "支出先名",
			Amount:         "金額",
			ContractMethod: "契約方式等",
			Bidders:        "入札者数",
			ExpenseType:    "費目",
			ExpenseAmount:  "金額",
		},
		queries: Queries{
			Expenditures: `SELECT "事業年度", "事業名", "政策所管府省庁", "契約概要", "支出先名", "金額", "契約方式等", "入札者数"
FROM govis_main_data
ORDER BY "事業年度", "事業名"`,
			Expenses: `SELECT "費目", "金額"
FROM govis_main_data
WHERE "費目" IS NOT NULL AND "費目" != ''
ORDER BY "事業年度", "事業名"`,
		},
	}
}

func columnsExtractor() mappedExtractor {
	return mappedExtractor{
		variant: Columns,
		fields: Fields{
			Year:           "column_02",
			ProjectID:      "column_03",
			ProjectName:    "column_04",
			Ministry:       "column_06",
			Contractor:     "column_19",
			Amount:         "column_26",
			ContractMethod: "column_27",
			Bidders:        "column_29",
			ExpenseType:    "column_18",
			ExpenseAmount:  "column_20",
		},
		queries: Queries{
			Expenditures: `SELECT "column_02", "column_03", "column_04", "column_06", "column_19", "column_26", "column_27", "column_29"
FROM govis_table_03
ORDER BY "column_02", "column_03"`,
			Expenses: `SELECT "column_18", "column_20"
FROM govis_table_04
ORDER BY "column_02", "column_03"`,
		},
	}
}

func normalizedExtractor() mappedExtractor {
	return mappedExtractor{
		variant: Normalized,
		fields: Fields{
			Year:           "project_year",
			ProjectID:      "project_id",
			ProjectName:    "project_name",
			Ministry:       "ministry",
			ContractName:   "contract_summary",
			Contractor:     "recipient_name",
			Amount:         "amount",
			ContractMethod: "contract_method",
			Bidders:        "num_bidders",
			ExpenseType:    "expense_item",
			ExpenseAmount:  "amount",
		},
		queries: Queries{
			Expenditures: `SELECT e.project_year, e.project_id, p.project_name, p.ministry,
       e.contract_summary, e.recipient_name, e.amount, e.contract_method, e.num_bidders
FROM expenditures e
LEFT JOIN projects_master p ON p.project_year = e.project_year AND p.project_id = e.project_id
ORDER BY e.project_year, e.project_id, e.block_number, e.seq_no`,
			Expenses: `SELECT expense_item, amount
FROM expenditure_usages
ORDER BY project_year, project_id, block_number, seq_no`,
		},
	}
}

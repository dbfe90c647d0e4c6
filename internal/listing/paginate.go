package listing

// Paginate 按父商品分组分页，同一组的变体不会被拆到两页
func Paginate(rows []Row, page, pageSize int) ([]Row, int) {
	starts := make([]int, 0, len(rows))
	for idx := range rows {
		if rows[idx].IsParent() {
			starts = append(starts, idx)
		}
	}
	total := len(starts)
	if pageSize <= 0 {
		return rows, total
	}
	if page < 1 {
		page = 1
	}
	first := (page - 1) * pageSize
	if first >= total {
		return []Row{}, total
	}
	last := first + pageSize
	end := len(rows)
	if last < total {
		end = starts[last]
	}
	return rows[starts[first]:end], total
}

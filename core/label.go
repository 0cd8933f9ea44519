package core

// Label 是推荐链路中可解释、可追踪的标记。
// Value 与 Source 的语义由调用方定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// MergeLabel 合并同名 Label，保留历史：
//   - Value 以 '|' 累积
//   - Source 以 ',' 累积
func MergeLabel(existing, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := Label{Value: existing.Value + "|" + incoming.Value}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "", incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

func putLabel(labels map[string]Label, key string, lbl Label) map[string]Label {
	if labels == nil {
		labels = make(map[string]Label)
	}
	if old, ok := labels[key]; ok {
		labels[key] = MergeLabel(old, lbl)
		return labels
	}
	labels[key] = lbl
	return labels
}

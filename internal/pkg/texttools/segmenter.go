package texttools

import (
	"regexp"
	"strings"
)

// Segment 表示切分后的一段文本
type Segment struct {
	Text     string // 段落文本（已去除首尾空白）
	Header   string // 所属标题（尚未出现标题时为空）
	IsHeader bool   // 是否为标题段（此时 Text == Header）
}

// Segmenter 文本切分器，用于将文档切分为若干朗读段落
type Segmenter struct {
	// 是否按 Markdown 标题（# ~ ######）切分
	splitByHeaders bool
	// 是否按句末标点（. ! ?）进一步切分
	splitByPunctuation bool
	// 最小段落长度（字符数），小于此长度的段落会被过滤
	minSegmentLength int
}

// NewSegmenter 创建切分器实例（默认：按标题和标点切分，最小长度 50）
func NewSegmenter() *Segmenter {
	return &Segmenter{
		splitByHeaders:     true,
		splitByPunctuation: true,
		minSegmentLength:   50,
	}
}

// SetSplitByHeaders 设置是否按 Markdown 标题切分
func (s *Segmenter) SetSplitByHeaders(enabled bool) {
	s.splitByHeaders = enabled
}

// SetSplitByPunctuation 设置是否按句末标点切分
func (s *Segmenter) SetSplitByPunctuation(enabled bool) {
	s.splitByPunctuation = enabled
}

// SetMinSegmentLength 设置最小段落长度（字符数）
func (s *Segmenter) SetMinSegmentLength(length int) {
	s.minSegmentLength = length
}

// Markdown 标题行：1~6 个 #，后跟空白和非空标题文本
var headerPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// 句子结束：一串句末标点后跟空白（空白作为分隔符被丢弃）
var sentenceEndPattern = regexp.MustCompile(`([.!?]+)(\s+)`)

// Parse 将文本切分为有序段落列表
//
// 处理顺序固定：
//  1. 按标题切分（可选），未开启时整篇作为一个无标题段落
//  2. 按句末标点切分（可选），标题段不参与
//  3. 过滤过短段落（标题段同样参与过滤）
//
// Parse 是纯函数，永不失败；无标题、无标点的输入只会得到更少更大的段落。
func (s *Segmenter) Parse(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var segments []Segment
	if s.splitByHeaders {
		segments = s.splitHeaders(text)
	} else {
		segments = []Segment{{Text: strings.TrimSpace(text)}}
	}

	if s.splitByPunctuation {
		segments = s.splitSentences(segments)
	}

	// 最后过滤过短的段落
	var result []Segment
	for _, seg := range segments {
		if len([]rune(strings.TrimSpace(seg.Text))) >= s.minSegmentLength {
			result = append(result, seg)
		}
	}
	return result
}

// splitHeaders 按 Markdown 标题逐行扫描切分
// 标题行自身作为一个标题段输出，其后的内容行归属该标题，直到下一个标题出现
func (s *Segmenter) splitHeaders(text string) []Segment {
	var segments []Segment
	currentHeader := ""
	var currentLines []string

	flush := func() {
		if len(currentLines) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if body != "" {
			segments = append(segments, Segment{
				Text:   body,
				Header: currentHeader,
			})
		}
		currentLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			// 先输出上一个标题下累积的内容
			flush()

			header := strings.TrimSpace(m[2])
			segments = append(segments, Segment{
				Text:     header,
				Header:   header,
				IsHeader: true,
			})
			currentHeader = header
			continue
		}

		// 空行不产生内容，也不打断当前段落
		if strings.TrimSpace(line) != "" {
			currentLines = append(currentLines, line)
		}
	}

	flush()
	return segments
}

// splitSentences 将内容段按句末标点进一步切分，标题段原样通过
//
// 标点保留在句子末尾，分隔空白被丢弃。短于最小长度的句子在此阶段被丢弃；
// 末尾无标点的剩余文本若过短则拼接到上一个已输出的内容段，避免丢字——
// 若没有可拼接的段落则仍然单独输出。
func (s *Segmenter) splitSentences(segments []Segment) []Segment {
	var result []Segment

	for _, seg := range segments {
		if seg.IsHeader {
			result = append(result, seg)
			continue
		}

		last := 0
		for _, m := range sentenceEndPattern.FindAllStringSubmatchIndex(seg.Text, -1) {
			// m[2]:m[3] 为标点部分，m[4]:m[5] 为分隔空白
			sentence := strings.TrimSpace(seg.Text[last:m[3]])
			last = m[5]

			if sentence != "" && len([]rune(sentence)) >= s.minSegmentLength {
				result = append(result, Segment{
					Text:   sentence,
					Header: seg.Header,
				})
			}
		}

		remainder := strings.TrimSpace(seg.Text[last:])
		if remainder == "" {
			continue
		}

		switch {
		case len([]rune(remainder)) >= s.minSegmentLength:
			result = append(result, Segment{
				Text:   remainder,
				Header: seg.Header,
			})
		case len(result) > 0 && !result[len(result)-1].IsHeader:
			result[len(result)-1].Text += " " + remainder
		default:
			result = append(result, Segment{
				Text:   remainder,
				Header: seg.Header,
			})
		}
	}

	return result
}

// ExtractHeaders 提取文本中的所有 Markdown 标题
func (s *Segmenter) ExtractHeaders(text string) []string {
	var headers []string
	for _, line := range strings.Split(text, "\n") {
		if m := headerPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			headers = append(headers, strings.TrimSpace(m[2]))
		}
	}
	return headers
}

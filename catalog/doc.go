// Package catalog 负责书目与评论数据集的读取、清洗与查询。
//
//   - LoadWorks / LoadReviews：CSV 解析与清洗
//   - Open / Fetch：从本地文件或 URL 读取数据集（单次请求，不重试）
//   - ReviewStats：评论聚合，实现 core.BookStatsService
//   - Index / Search：书名、作者、类型的子串搜索
//   - Sample：可复现的 CSV 行采样
package catalog
